// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/nandcello/radstream/internal/config"
	"github.com/nandcello/radstream/internal/metrics"
	"github.com/nandcello/radstream/internal/models"
)

// Transition targets accepted by liveBroadcasts.transition.
const (
	TransitionLive     = "live"
	TransitionComplete = "complete"
)

// Operation names used for errors and metrics.
const (
	opListBroadcasts      = "liveBroadcasts.list"
	opInsertBroadcast     = "liveBroadcasts.insert"
	opUpdateBroadcast     = "liveBroadcasts.update"
	opBindBroadcast       = "liveBroadcasts.bind"
	opTransitionBroadcast = "liveBroadcasts.transition"
	opListStreams         = "liveStreams.list"
	opGetStream           = "liveStreams.get"
	opInsertStream        = "liveStreams.insert"
)

var (
	broadcastParts = []string{"id", "snippet", "status", "contentDetails"}
	streamParts    = []string{"id", "snippet", "cdn", "status", "contentDetails"}
)

// API is the subset of the YouTube Data API the broadcast service drives.
// Client implements it; tests substitute fakes.
type API interface {
	ListBroadcasts(ctx context.Context) ([]*models.Broadcast, error)
	InsertBroadcast(ctx context.Context, in BroadcastInsert) (*models.Broadcast, error)
	UpdateBroadcast(ctx context.Context, in BroadcastUpdate) (*models.Broadcast, error)
	BindBroadcast(ctx context.Context, broadcastID, streamID string) (*models.Broadcast, error)
	TransitionBroadcast(ctx context.Context, broadcastID, status string) (*models.Broadcast, error)

	ListStreams(ctx context.Context) ([]*models.LiveStream, error)
	GetStream(ctx context.Context, streamID string) (*models.LiveStream, error)
	InsertStream(ctx context.Context, in StreamInsert) (*models.LiveStream, error)
}

// BroadcastInsert describes a new broadcast.
type BroadcastInsert struct {
	Title              string
	Description        string
	PrivacyStatus      string
	ScheduledStartTime time.Time
}

// BroadcastUpdate carries the complete snippet sent on update. The provider
// clears any snippet field omitted from the request, so callers merge
// unchanged values in before calling UpdateBroadcast.
type BroadcastUpdate struct {
	ID                 string
	Title              string
	Description        string
	ScheduledStartTime time.Time
}

// StreamInsert describes a new reusable ingestion stream.
type StreamInsert struct {
	Title string
}

// TokenProvider supplies a valid access token for each outbound request.
type TokenProvider interface {
	EnsureAccessToken(ctx context.Context) (*oauth2.Token, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	Tokens TokenProvider

	// HTTPClient supplies the base transport. Nil uses http.DefaultTransport.
	HTTPClient *http.Client

	// Endpoint overrides the API root, e.g. for tests.
	Endpoint string

	MaxResults        int64
	RequestTimeout    time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	RequestsPerSecond float64
	Burst             int
}

// ClientConfigFrom builds a ClientConfig from the youtube config section.
func ClientConfigFrom(cfg *config.YouTubeConfig, tokens TokenProvider) ClientConfig {
	return ClientConfig{
		Tokens:            tokens,
		Endpoint:          cfg.Endpoint,
		MaxResults:        cfg.MaxResults,
		RequestTimeout:    cfg.RequestTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}
}

// Client talks to the YouTube Data API v3 with rate limiting, a circuit
// breaker and retries for idempotent reads.
type Client struct {
	svc        *yt.Service
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[interface{}]
	limiter    *rate.Limiter

	maxResults    int64
	timeout       time.Duration
	retryAttempts int
	retryDelay    time.Duration
}

// NewClient builds a Client. Tokens is required.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.Tokens == nil {
		return nil, errors.New("youtube client requires a token provider")
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > 50 {
		cfg.MaxResults = 50
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	base := http.DefaultTransport
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		base = cfg.HTTPClient.Transport
	}
	httpClient := &http.Client{
		Transport: &bearerTransport{tokens: cfg.Tokens, base: base},
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Client{
		svc:           svc,
		httpClient:    httpClient,
		cb:            newCircuitBreaker(breakerName),
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxResults:    cfg.MaxResults,
		timeout:       cfg.RequestTimeout,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
	}, nil
}

// ListBroadcasts returns every broadcast owned by the authorized channel.
func (c *Client) ListBroadcasts(ctx context.Context) ([]*models.Broadcast, error) {
	var items []*yt.LiveBroadcast
	err := c.retryWithBackoff(ctx, opListBroadcasts, func() error {
		result, err := c.call(ctx, opListBroadcasts, func(callCtx context.Context) (interface{}, error) {
			return c.svc.LiveBroadcasts.List(broadcastParts).
				BroadcastStatus("all").
				BroadcastType("all").
				MaxResults(c.maxResults).
				Context(callCtx).
				Do()
		})
		resp, err := castResult[yt.LiveBroadcastListResponse](result, err)
		if err != nil {
			return err
		}
		items = resp.Items
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*models.Broadcast, 0, len(items))
	for _, item := range items {
		out = append(out, toBroadcast(item))
	}
	return out, nil
}

// InsertBroadcast creates a broadcast with stream monitoring disabled, so it
// can go from ready to live without a testing phase.
func (c *Client) InsertBroadcast(ctx context.Context, in BroadcastInsert) (*models.Broadcast, error) {
	body := &yt.LiveBroadcast{
		Snippet: &yt.LiveBroadcastSnippet{
			Title:              in.Title,
			Description:        in.Description,
			ScheduledStartTime: formatTime(in.ScheduledStartTime),
		},
		Status: &yt.LiveBroadcastStatus{
			PrivacyStatus: in.PrivacyStatus,
		},
		ContentDetails: &yt.LiveBroadcastContentDetails{
			MonitorStream: &yt.MonitorStreamInfo{
				EnableMonitorStream: googleapi.Bool(false),
			},
		},
	}

	result, err := c.call(ctx, opInsertBroadcast, func(callCtx context.Context) (interface{}, error) {
		return c.svc.LiveBroadcasts.Insert([]string{"snippet", "status", "contentDetails"}, body).
			Context(callCtx).
			Do()
	})
	item, err := castResult[yt.LiveBroadcast](result, err)
	if err != nil {
		return nil, err
	}
	metrics.RecordBroadcastCreated()
	return toBroadcast(item), nil
}

// UpdateBroadcast replaces the broadcast snippet.
func (c *Client) UpdateBroadcast(ctx context.Context, in BroadcastUpdate) (*models.Broadcast, error) {
	body := &yt.LiveBroadcast{
		Id: in.ID,
		Snippet: &yt.LiveBroadcastSnippet{
			Title:              in.Title,
			Description:        in.Description,
			ScheduledStartTime: formatTime(in.ScheduledStartTime),
			ForceSendFields:    []string{"Description"},
		},
	}

	result, err := c.call(ctx, opUpdateBroadcast, func(callCtx context.Context) (interface{}, error) {
		return c.svc.LiveBroadcasts.Update([]string{"snippet"}, body).
			Context(callCtx).
			Do()
	})
	item, err := castResult[yt.LiveBroadcast](result, err)
	if err != nil {
		return nil, err
	}
	return toBroadcast(item), nil
}

// BindBroadcast binds streamID to the broadcast.
func (c *Client) BindBroadcast(ctx context.Context, broadcastID, streamID string) (*models.Broadcast, error) {
	result, err := c.call(ctx, opBindBroadcast, func(callCtx context.Context) (interface{}, error) {
		return c.svc.LiveBroadcasts.Bind(broadcastID, broadcastParts).
			StreamId(streamID).
			Context(callCtx).
			Do()
	})
	item, err := castResult[yt.LiveBroadcast](result, err)
	if err != nil {
		return nil, err
	}
	return toBroadcast(item), nil
}

// TransitionBroadcast moves the broadcast to status (testing, live or complete).
func (c *Client) TransitionBroadcast(ctx context.Context, broadcastID, status string) (*models.Broadcast, error) {
	result, err := c.call(ctx, opTransitionBroadcast, func(callCtx context.Context) (interface{}, error) {
		return c.svc.LiveBroadcasts.Transition(status, broadcastID, broadcastParts).
			Context(callCtx).
			Do()
	})
	item, err := castResult[yt.LiveBroadcast](result, err)
	metrics.RecordTransition(status, err == nil)
	if err != nil {
		return nil, err
	}
	return toBroadcast(item), nil
}

// ListStreams returns the channel's ingestion streams in provider order.
func (c *Client) ListStreams(ctx context.Context) ([]*models.LiveStream, error) {
	return c.listStreams(ctx, opListStreams, url.Values{
		"mine":       {"true"},
		"maxResults": {strconv.FormatInt(c.maxResults, 10)},
	})
}

// GetStream fetches one ingestion stream. It returns models.ErrNotFound when
// the provider has no stream with that ID.
func (c *Client) GetStream(ctx context.Context, streamID string) (*models.LiveStream, error) {
	streams, err := c.listStreams(ctx, opGetStream, url.Values{"id": {streamID}})
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, fmt.Errorf("live stream %s: %w", streamID, models.ErrNotFound)
	}
	return streams[0], nil
}

// InsertStream creates a reusable RTMP ingestion stream with variable
// resolution and frame rate.
func (c *Client) InsertStream(ctx context.Context, in StreamInsert) (*models.LiveStream, error) {
	body := &yt.LiveStream{
		Snippet: &yt.LiveStreamSnippet{
			Title: in.Title,
		},
		Cdn: &yt.CdnSettings{
			IngestionType: "rtmp",
			Resolution:    "variable",
			FrameRate:     "variable",
		},
		ContentDetails: &yt.LiveStreamContentDetails{
			IsReusable: true,
		},
	}

	result, err := c.call(ctx, opInsertStream, func(callCtx context.Context) (interface{}, error) {
		return c.svc.LiveStreams.Insert([]string{"snippet", "cdn", "contentDetails", "status"}, body).
			Context(callCtx).
			Do()
	})
	item, err := castResult[yt.LiveStream](result, err)
	if err != nil {
		return nil, err
	}
	metrics.RecordLiveStreamCreated()
	return toLiveStream(item), nil
}

// CircuitState reports the breaker state: closed, half-open or open.
func (c *Client) CircuitState() string {
	return stateToString(c.cb.State())
}

// call runs one provider request under the limiter, timeout and breaker, and
// records its outcome.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	start := time.Now()

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		res, err := fn(callCtx)
		if err != nil {
			return nil, mapError(ctx, op, err)
		}
		return res, nil
	})

	metrics.RecordYouTubeCall(op, callResult(err), time.Since(start))
	return result, err
}

func (c *Client) wait(ctx context.Context) error {
	start := time.Now()
	err := c.limiter.Wait(ctx)
	metrics.RecordLimiterWait(time.Since(start))
	return err
}

func callResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCircuitOpen):
		return "rejected"
	case errors.Is(err, models.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

// bearerTransport authorizes each request with the current access token.
type bearerTransport struct {
	tokens TokenProvider
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.tokens.EnsureAccessToken(req.Context())
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}
	r := req.Clone(req.Context())
	tok.SetAuthHeader(r)
	return t.base.RoundTrip(r)
}
