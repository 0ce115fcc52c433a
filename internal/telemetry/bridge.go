// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"devcon-telemetry/internal/events"
)

// EventName is the event consumers dispatch to trigger a telemetry send.
const EventName = "devcon:telemetry:send"

// ErrorHandler receives errors a send settled with. These happen after the
// event has been dispatched, so there is nobody to return them to.
type ErrorHandler func(ev *events.Event, err error)

// Bridge connects the telemetry send event to a Sender.
type Bridge struct {
	sender     *Sender
	deliveries *Deliveries
	onError    ErrorHandler

	installed sync.Once
}

type BridgeOption func(*Bridge)

// WithErrorHandler replaces the default handler, which logs the error.
func WithErrorHandler(fn ErrorHandler) BridgeOption {
	return func(b *Bridge) {
		b.onError = fn
	}
}

// WithDeliveries makes the bridge record every outcome.
func WithDeliveries(d *Deliveries) BridgeOption {
	return func(b *Bridge) {
		b.deliveries = d
	}
}

func NewBridge(sender *Sender, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		sender: sender,
		onError: func(ev *events.Event, err error) {
			slog.Error("Telemetry Bridge: Unhandled error while sending telemetry.", "event", ev.ID, "error", err)
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Install subscribes the bridge to the target. Subsequent calls are no-ops,
// there is no way to unsubscribe.
func (b *Bridge) Install(target *events.Target) {
	b.installed.Do(func() {
		target.AddEventListener(EventName, b.Handle)
	})
}

// Handle validates the event detail and sends the telemetry. It returns an
// InvalidPayloadError for bad details and a ConfigurationError for methods
// that aren't allowed, in both cases nothing is sent.
func (b *Bridge) Handle(ctx context.Context, ev *events.Event) error {
	p, err := ParsePayload(ev.Detail)
	if err != nil {
		PromInvalidPayloads.Inc()
		return err
	}
	logger := slog.With("event", ev.ID, "method", p.Method)

	return b.sender.Send(ctx, p.Data, p.Method, func(err error, res *Summary) {
		b.record(ev, p, err, res)

		if err != nil {
			b.onError(ev, err)
			return
		}
		logger.Info("Telemetry Bridge: Telemetry sent.", "response", res)
	})
}

func (b *Bridge) record(ev *events.Event, p *Payload, err error, res *Summary) {
	if b.deliveries == nil {
		return
	}
	dl := &Delivery{
		EventID: ev.ID,
		Method:  p.Method,
		Summary: res,
		Settled: time.Now(),
	}
	if err != nil {
		dl.Error = err.Error()

		var terr *Error
		if errors.As(err, &terr) {
			dl.Summary = terr.Summary
		}
	}
	b.deliveries.Record(dl)
}
