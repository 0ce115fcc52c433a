// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ContentTypeJSON is the content type of every request body we send.
const ContentTypeJSON = "application/json"

// requestHeaders are added to every outbound request. They are response
// headers by nature and have no effect on CORS when sent by a client, CORS is
// governed by the server. The ingestion endpoint has always received them, so
// we keep sending them.
var requestHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET",
	"Access-Control-Allow-Headers": "*",
}

// Request describes a single outbound telemetry request. It is built fresh
// for every send and never reused.
type Request struct {
	URL         string
	Method      string
	Body        string // Serialized JSON.
	ContentType string
	Headers     map[string]string
}

// RequestBuilder constructs Requests against the configured endpoint.
type RequestBuilder struct {
	config *Config
}

func NewRequestBuilder(config *Config) *RequestBuilder {
	return &RequestBuilder{config: config}
}

// Build validates method and serializes data. Nothing is constructed when
// the method isn't allowed.
func (b *RequestBuilder) Build(method string, data any) (*Request, error) {
	if !b.config.IsAllowed(method) {
		return nil, Fail(ErrConfiguration, "Method Name mismatch", "Invalid method name - "+method)
	}

	body, err := json.Marshal(data)
	if err != nil {
		return nil, wrapFail(ErrConfiguration, "Data serialization failed", err)
	}

	headers := make(map[string]string, len(requestHeaders))
	for k, v := range requestHeaders {
		headers[k] = v
	}

	return &Request{
		URL:         b.config.URL,
		Method:      method,
		Body:        string(body),
		ContentType: ContentTypeJSON,
		Headers:     headers,
	}, nil
}

// HTTPRequest materializes the descriptor into a request that can be passed
// to an http.Client.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, strings.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", r.ContentType)

	return req, nil
}
