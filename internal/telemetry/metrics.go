// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes a send settles with.
const (
	OutcomeDelivered = "delivered" // Any response below 400.
	OutcomeRejected  = "rejected"  // The endpoint responded with 4xx or 5xx.
	OutcomeFailed    = "failed"    // No response at all.
	OutcomeTimeout   = "timeout"
)

// Metrics exposed for collection by Prometheus.
var (
	PromSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_sends_total",
		Help: "The total number of settled telemetry sends.",
	}, []string{"method", "outcome"})

	PromSendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "telemetry_send_duration_seconds",
		Help:    "Time from issuing a telemetry request until it settled.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	PromInvalidPayloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_invalid_payloads_total",
		Help: "The total number of rejected event payloads.",
	})
)

// High Frequency metrics, these should be mutated through atomic operations.
var (
	PulseSends atomic.Int32 // A gauge that is reset every second.
)
