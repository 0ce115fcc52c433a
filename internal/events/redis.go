// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisSource dispatches messages published on Redis channels as events.
// Each channel carries one event type, the channel is named after it, the
// message payload is the event detail.
type RedisSource struct {
	client *redis.Client
	target *Target
	names  []string
}

func NewRedisSource(client *redis.Client, target *Target, names ...string) *RedisSource {
	return &RedisSource{
		client: client,
		target: target,
		names:  names,
	}
}

// Run subscribes and dispatches until ctx is cancelled. Dispatch errors are
// logged and don't stop the source. A dispatch in progress when ctx is
// cancelled completes before Run returns.
func (s *RedisSource) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.names...)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed, before reporting we are
	// ready.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %v: %w", s.names, err)
	}
	slog.Info("Redis Source: Subscribed, dispatching events.", "channels", s.names)

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Redis Source: Context cancelled, unsubscribing.")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			s.dispatch(ctx, msg)
		}
	}
}

func (s *RedisSource) dispatch(ctx context.Context, msg *redis.Message) {
	ev := &Event{
		Type:   msg.Channel,
		Detail: json.RawMessage(msg.Payload),
	}
	if err := s.target.Dispatch(ctx, ev); err != nil {
		slog.Error("Redis Source: Unhandled error while dispatching event.", "event", ev.ID, "type", ev.Type, "error", err)
	}
}
