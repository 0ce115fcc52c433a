// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events provides an in-process event target. Ingress adapters
// dispatch named events onto it, subsystems listen for the names they care
// about.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrNoListener is returned by Dispatch for events nobody listens for.
var ErrNoListener = errors.New("No listener for event")

var PromDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "events_dispatched_total",
	Help: "The total number of dispatched events.",
}, []string{"type", "result"})

// Event is a named event, the detail is passed through verbatim.
type Event struct {
	ID      string
	Type    string
	Detail  json.RawMessage
	Created time.Time
}

// Listener handles an event. A returned error is unhandled from the point of
// view of the target and is handed back to whoever dispatched the event.
type Listener func(ctx context.Context, ev *Event) error

type Target struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewTarget() *Target {
	return &Target{
		listeners: make(map[string][]Listener),
	}
}

// AddEventListener registers l for events of the given name. Listeners stay
// registered for the lifetime of the target.
func (t *Target) AddEventListener(name string, l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.listeners[name] = append(t.listeners[name], l)
}

func (t *Target) HasListener(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.listeners[name]) > 0
}

// Dispatch runs all listeners for the event in registration order, in the
// calling goroutine. The first listener error stops dispatching and is
// returned. ID and Created are populated when missing.
func (t *Target) Dispatch(ctx context.Context, ev *Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Created.IsZero() {
		ev.Created = time.Now()
	}

	t.mu.RLock()
	listeners := t.listeners[ev.Type]
	t.mu.RUnlock()

	if len(listeners) == 0 {
		PromDispatches.WithLabelValues(ev.Type, "unhandled").Inc()
		return ErrNoListener
	}
	slog.Debug("Event Target: Dispatching event...", "event", ev.ID, "type", ev.Type)

	for _, l := range listeners {
		if err := l(ctx, ev); err != nil {
			PromDispatches.WithLabelValues(ev.Type, "error").Inc()
			return err
		}
	}
	PromDispatches.WithLabelValues(ev.Type, "ok").Inc()
	return nil
}
