// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// MaxResponseBodySize limits how much of a response body is kept.
const MaxResponseBodySize = 1 << 20

// Completion is the raw outcome of a settled HTTP request, as far as the
// transport got. Zero values mean the field was absent.
type Completion struct {
	Status       int
	StatusText   string
	ResponseJSON any
	ResponseText string
}

// Summary is the stable response shape handed to callbacks. Absent values
// are nil and serialize as null.
type Summary struct {
	StatusCode   *int    `json:"statusCode"`
	StatusText   *string `json:"statusText"`
	ResponseJSON any     `json:"responseJSON"`
	ResponseText *string `json:"responseText"`
}

// Normalize maps a completion into a Summary. It must never fail, a nil
// completion results in an all-null summary.
func Normalize(raw *Completion) Summary {
	var s Summary
	if raw == nil {
		return s
	}

	if raw.Status != 0 {
		v := raw.Status
		s.StatusCode = &v
	}
	if raw.StatusText != "" {
		v := raw.StatusText
		s.StatusText = &v
	}
	if raw.ResponseJSON != nil {
		s.ResponseJSON = raw.ResponseJSON
	}
	if raw.ResponseText != "" {
		v := raw.ResponseText
		s.ResponseText = &v
	}
	return s
}

// newCompletion reads res into a Completion. The body is consumed up to
// MaxResponseBodySize. A body that can't be read fully is an error, the
// response is then incomplete.
func newCompletion(res *http.Response) (*Completion, error) {
	c := &Completion{
		Status:     res.StatusCode,
		StatusText: strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode))),
	}
	if res.Body == nil {
		return c, nil
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseBodySize))
	if err != nil {
		return nil, err
	}
	c.ResponseText = string(body)

	if len(body) > 0 && strings.Contains(strings.ToLower(res.Header.Get("Content-Type")), "json") {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			c.ResponseJSON = v
		}
	}
	return c, nil
}

// LogValue implements slog.LogValuer.
func (s *Summary) LogValue() slog.Value {
	if s == nil {
		return slog.Value{}
	}
	attrs := make([]slog.Attr, 0, 3)
	if s.StatusCode != nil {
		attrs = append(attrs, slog.Int("statusCode", *s.StatusCode))
	}
	if s.StatusText != nil {
		attrs = append(attrs, slog.String("statusText", *s.StatusText))
	}
	if s.ResponseText != nil {
		attrs = append(attrs, slog.Int("responseBytes", len(*s.ResponseText)))
	}
	return slog.GroupValue(attrs...)
}
