// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"google.golang.org/api/googleapi"
	yt "google.golang.org/api/youtube/v3"

	"github.com/nandcello/radstream/internal/models"
)

// maxStreamListBytes bounds a liveStreams.list response body.
const maxStreamListBytes = 4 << 20

// streamFlags decodes only the presence-sensitive fields of a
// liveStreams.list response. The generated LiveStreamContentDetails holds
// isReusable as a plain bool, and a missing flag means reusable.
type streamFlags struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails *struct {
			IsReusable *bool `json:"isReusable"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// listStreams runs liveStreams.list with the given filter (mine or id),
// retrying transient failures.
func (c *Client) listStreams(ctx context.Context, op string, filter url.Values) ([]*models.LiveStream, error) {
	var streams []*models.LiveStream
	err := c.retryWithBackoff(ctx, op, func() error {
		result, err := c.call(ctx, op, func(callCtx context.Context) (interface{}, error) {
			return c.fetchStreams(callCtx, filter)
		})
		got, err := castResult[[]*models.LiveStream](result, err)
		if err != nil {
			return err
		}
		streams = *got
		return nil
	})
	return streams, err
}

func (c *Client) fetchStreams(ctx context.Context, filter url.Values) (*[]*models.LiveStream, error) {
	query := url.Values{
		"part":        {strings.Join(streamParts, ",")},
		"alt":         {"json"},
		"prettyPrint": {"false"},
	}
	for k, v := range filter {
		query[k] = v
	}
	endpoint := googleapi.ResolveRelative(c.svc.BasePath, "youtube/v3/liveStreams") + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer googleapi.CloseBody(res)
	if err := googleapi.CheckResponse(res); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxStreamListBytes))
	if err != nil {
		return nil, fmt.Errorf("read liveStreams response: %w", err)
	}

	var list yt.LiveStreamListResponse
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode liveStreams response: %w", err)
	}
	var flags streamFlags
	if err := json.Unmarshal(raw, &flags); err != nil {
		return nil, fmt.Errorf("decode liveStreams response: %w", err)
	}

	reusable := make(map[string]*bool, len(flags.Items))
	for _, item := range flags.Items {
		if item.ContentDetails != nil {
			reusable[item.ID] = item.ContentDetails.IsReusable
		}
	}

	streams := make([]*models.LiveStream, 0, len(list.Items))
	for _, item := range list.Items {
		s := toLiveStream(item)
		if s == nil {
			continue
		}
		s.IsReusable = reusable[item.Id]
		streams = append(streams, s)
	}
	return &streams, nil
}
