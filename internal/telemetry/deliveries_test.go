package telemetry

import (
	"testing"
	"time"
)

func TestDeliveriesRecordAndGet(t *testing.T) {
	d := NewDeliveries(10, time.Minute)

	d.Record(&Delivery{EventID: "1", Method: "POST"})

	dl, ok := d.Get("1")
	if !ok {
		t.Fatal("delivery not found")
	}
	if dl.Method != "POST" {
		t.Errorf("unexpected method: %s", dl.Method)
	}
	if _, ok := d.Get("2"); ok {
		t.Error("unexpected delivery")
	}
}

func TestDeliveriesAreBounded(t *testing.T) {
	d := NewDeliveries(2, time.Minute)

	d.Record(&Delivery{EventID: "1"})
	d.Record(&Delivery{EventID: "2"})
	d.Record(&Delivery{EventID: "3"})

	if d.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", d.Len())
	}
	if _, ok := d.Get("1"); ok {
		t.Error("expected oldest delivery to be evicted")
	}
}
