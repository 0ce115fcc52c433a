package telemetry

import (
	"errors"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	c, err := NewConfig(DefaultURL)
	if err != nil {
		t.Fatal(err)
	}
	if c.URL != DefaultURL {
		t.Errorf("unexpected URL: %s", c.URL)
	}
	for _, m := range []string{"POST", "PUT"} {
		if !c.IsAllowed(m) {
			t.Errorf("expected %s to be allowed", m)
		}
	}
	for _, m := range []string{"GET", "DELETE", "post", ""} {
		if c.IsAllowed(m) {
			t.Errorf("expected %q not to be allowed", m)
		}
	}
}

func TestNewConfigRejectsBrokenURLs(t *testing.T) {
	for _, u := range []string{"", "ftp://example.org/telemetry", "not a url", "http://"} {
		_, err := NewConfig(u)
		if err == nil {
			t.Errorf("expected error for %q", u)
			continue
		}
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("expected configuration error for %q, got %v", u, err)
		}
	}
}

func TestNewConfigMissingURLMessage(t *testing.T) {
	_, err := NewConfig("")

	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if terr.Name != "CONFIG mismatch" || terr.Message != "Telemetry URL is missing" {
		t.Errorf("unexpected error: %s", terr)
	}
}

func mustConfig(t *testing.T, rawurl string) *Config {
	t.Helper()

	c, err := NewConfig(rawurl)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
