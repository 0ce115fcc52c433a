// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Delivery is the recorded outcome of the send triggered by an event.
type Delivery struct {
	EventID string    `json:"event"`
	Method  string    `json:"method"`
	Summary *Summary  `json:"response,omitempty"`
	Error   string    `json:"error,omitempty"`
	Settled time.Time `json:"settled"`
}

// Deliveries keeps the most recent deliveries around for inspection. It
// cannot grow unbound, old entries expire or get evicted.
type Deliveries struct {
	entries *lru.LRU[string, *Delivery]
}

func NewDeliveries(size int, ttl time.Duration) *Deliveries {
	return &Deliveries{
		entries: lru.NewLRU[string, *Delivery](size, nil, ttl),
	}
}

func (d *Deliveries) Record(dl *Delivery) {
	d.entries.Add(dl.EventID, dl)
}

func (d *Deliveries) Get(eventID string) (*Delivery, bool) {
	return d.entries.Get(eventID)
}

func (d *Deliveries) Len() int {
	return d.entries.Len()
}
