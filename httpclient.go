package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// CreateTelemetryHTTPClient creates the client telemetry is sent with. It is
// built like the other clients, but never retries, a request is attempted
// exactly once. The caller is responsible for deadlines via the request
// context.
func CreateTelemetryHTTPClient(ua string) *http.Client {
	rc := retryablehttp.NewClient()

	rc.HTTPClient = &http.Client{
		Transport: &UserAgentTransport{
			Transport: otelhttp.NewTransport(cleanhttp.DefaultPooledTransport()),
			UserAgent: ua,
		},
	}
	rc.Logger = slog.Default()
	rc.RetryMax = 0
	rc.CheckRetry = noRetryPolicy
	// Hand back the response, instead of a "giving up" error, so that the
	// status of rejected telemetry can be reported.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return rc.StandardClient()
}

func noRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	return false, nil
}

// UserAgentTransport sets the User-Agent header on each request.
type UserAgentTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.UserAgent)

	return t.Transport.RoundTrip(req)
}
