// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds a single send, from issuing the request until the
// response body has been read.
const DefaultTimeout = 10 * time.Second

// Callback receives the outcome of a send. It is called exactly once per
// send, either with an error or with a summary, never with both.
type Callback func(err error, res *Summary)

// Sender forwards telemetry to the configured endpoint. Each call to Send
// results in exactly one network attempt, there are no retries.
type Sender struct {
	builder *RequestBuilder
	client  *http.Client
	tracer  trace.Tracer
	timeout time.Duration

	inflight sync.WaitGroup
}

type SenderOption func(*Sender)

// WithTimeout sets the deadline for a single send. Zero disables it.
func WithTimeout(d time.Duration) SenderOption {
	return func(s *Sender) {
		s.timeout = d
	}
}

func WithTracer(t trace.Tracer) SenderOption {
	return func(s *Sender) {
		s.tracer = t
	}
}

func NewSender(config *Config, client *http.Client, opts ...SenderOption) *Sender {
	s := &Sender{
		builder: NewRequestBuilder(config),
		client:  client,
		tracer:  otel.Tracer("telemetry"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send builds the request and issues it in the background. Construction
// errors are returned synchronously and nothing is sent in that case. The
// outcome of the request is delivered to cb, which may be nil.
//
// The request is detached from cancellation of ctx, as callers usually return
// right after Send did. Values, i.e. the trace, are retained.
func (s *Sender) Send(ctx context.Context, data any, method string, cb Callback) error {
	req, err := s.builder.Build(method, data)
	if err != nil {
		return err
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		res, err := s.roundTrip(context.WithoutCancel(ctx), req)
		s.settle(req, cb, err, res)
	}()
	return nil
}

// Wait blocks until all sends issued so far have settled.
func (s *Sender) Wait() {
	s.inflight.Wait()
}

func (s *Sender) roundTrip(ctx context.Context, r *Request) (*Summary, error) {
	logger := slog.With("method", r.Method, "url", r.URL)
	logger.Debug("Telemetry Sender: Sending request...")

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "telemetry.send", trace.WithAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.url", r.URL),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		PromSendDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	}()

	hreq, err := r.HTTPRequest(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create request")
		return nil, wrapFail(ErrTransport, "Request failed", err)
	}

	hres, err := s.client.Do(hreq)
	if err != nil {
		logger.Error("Telemetry Sender: Failed to send telemetry.", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, wrapFail(ErrTransport, "Request failed", err)
	}
	defer hres.Body.Close()

	completion, err := newCompletion(hres)
	if err != nil {
		logger.Error("Telemetry Sender: Failed to read response.", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read response")
		return nil, wrapFail(ErrTransport, "Request failed", err)
	}
	summary := Normalize(completion)
	span.SetAttributes(attribute.Int("http.status_code", hres.StatusCode))

	if hres.StatusCode >= http.StatusBadRequest {
		logger.Warn("Telemetry Sender: Telemetry was not accepted.", "status", hres.Status)
		span.SetStatus(codes.Error, hres.Status)

		return nil, &Error{
			Kind:    ErrTransport,
			Name:    "Request failed",
			Message: hres.Status,
			Summary: &summary,
		}
	}
	logger.Debug("Telemetry Sender: Telemetry accepted.", "status", hres.Status)
	return &summary, nil
}

// settle is the single point where a send completes.
func (s *Sender) settle(r *Request, cb Callback, err error, res *Summary) {
	PromSends.WithLabelValues(r.Method, outcomeOf(err)).Inc()
	PulseSends.Add(1)

	if cb == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			slog.Error("Telemetry Sender: Callback panicked.", "method", r.Method, "panic", v)
		}
	}()
	cb(err, res)
}

func outcomeOf(err error) string {
	var terr *Error

	switch {
	case err == nil:
		return OutcomeDelivered
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.As(err, &terr) && terr.Summary != nil:
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}
