// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package logging

import "strings"

// RedactSecret masks a stream key or OAuth token for logging, keeping the
// first and last four characters of long values.
//
//	"abcd-efgh-ijkl-mnop-qrst" -> "abcd...qrst"
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 12 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// SanitizeValue replaces control characters so user-supplied strings cannot
// forge log lines.
func SanitizeValue(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return '?'
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7F
}
