package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatchRunsListenersInOrder(t *testing.T) {
	target := NewTarget()

	var order []int
	target.AddEventListener("test", func(ctx context.Context, ev *Event) error {
		order = append(order, 1)
		return nil
	})
	target.AddEventListener("test", func(ctx context.Context, ev *Event) error {
		order = append(order, 2)
		return nil
	})

	if err := target.Dispatch(context.Background(), &Event{Type: "test"}); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestDispatchStopsAtFirstError(t *testing.T) {
	target := NewTarget()
	failure := errors.New("failure")

	var called bool
	target.AddEventListener("test", func(ctx context.Context, ev *Event) error {
		return failure
	})
	target.AddEventListener("test", func(ctx context.Context, ev *Event) error {
		called = true
		return nil
	})

	err := target.Dispatch(context.Background(), &Event{Type: "test"})
	if !errors.Is(err, failure) {
		t.Errorf("expected listener error, got %v", err)
	}
	if called {
		t.Error("second listener must not be called")
	}
}

func TestDispatchWithoutListener(t *testing.T) {
	target := NewTarget()

	err := target.Dispatch(context.Background(), &Event{Type: "unknown"})
	if !errors.Is(err, ErrNoListener) {
		t.Errorf("expected ErrNoListener, got %v", err)
	}
	if target.HasListener("unknown") {
		t.Error("unexpected listener")
	}
}

func TestDispatchPopulatesEvent(t *testing.T) {
	target := NewTarget()

	var seen *Event
	target.AddEventListener("test", func(ctx context.Context, ev *Event) error {
		seen = ev
		return nil
	})

	ev := &Event{Type: "test"}
	target.Dispatch(context.Background(), ev)

	if seen != ev {
		t.Fatal("listener did not receive the event")
	}
	if ev.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if ev.Created.IsZero() {
		t.Error("expected creation time to be assigned")
	}

	ev2 := &Event{ID: "fixed", Type: "test"}
	target.Dispatch(context.Background(), ev2)
	if ev2.ID != "fixed" {
		t.Errorf("ID must not be overwritten, got %s", ev2.ID)
	}
}
