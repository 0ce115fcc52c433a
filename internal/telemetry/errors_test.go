package telemetry

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailMatchesKind(t *testing.T) {
	err := Fail(ErrInvalidPayload, "Invalid payload", "data is missing")

	if !errors.Is(err, ErrInvalidPayload) {
		t.Error("expected error to match its kind")
	}
	if errors.Is(err, ErrConfiguration) {
		t.Error("expected error not to match another kind")
	}
	if err.Error() != "Invalid payload: data is missing" {
		t.Errorf("unexpected message: %q", err)
	}
}

func TestFailSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("listener failed: %w", Fail(ErrConfiguration, "Method Name mismatch", "Invalid method name - GET"))

	if !errors.Is(err, ErrConfiguration) {
		t.Error("expected wrapped error to match its kind")
	}
}

func TestWrapFailKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := wrapFail(ErrTransport, "Request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if !errors.Is(err, ErrTransport) {
		t.Error("expected error to match its kind")
	}
}
