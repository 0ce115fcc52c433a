// Copyright 2024 Factorial GmbH. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"devcon-telemetry/internal/events"
	"devcon-telemetry/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposed for collection by Prometheus.
var (
	PromUnhandledErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_unhandled_errors_total",
		Help: "The total number of errors telemetry sends settled with.",
	})
)

// reportUnhandled is the last resort for errors that occur after an event
// has been dispatched.
func reportUnhandled(ev *events.Event, err error) {
	PromUnhandledErrors.Inc()
	slog.Error("Unhandled error while sending telemetry.", "event", ev.ID, "type", ev.Type, "error", err)
}

// startPulse starts a go routine that pushes updates to the pulse endpoint.
func startPulse(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	client := &http.Client{Timeout: 500 * time.Millisecond}

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v := telemetry.PulseSends.Swap(0)

				rb := strings.NewReader(strconv.Itoa(int(v)))
				res, err := client.Post(PulseEndpoint+"/rps", "text/plain", rb)
				if err != nil {
					slog.Debug("Pulse: Failed to push.", "error", err)
					continue
				}
				res.Body.Close()
			}
		}
	}()
}
