// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"fmt"
	"net/url"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

const (
	// DefaultURL is the telemetry ingestion endpoint events are forwarded to.
	DefaultURL = "https://devcon.sunbirded.org/content/data/v1/telemetry"
)

// DefaultMethods are the HTTP methods the ingestion endpoint accepts.
var DefaultMethods = []string{"POST", "PUT"}

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// Config is process-wide and must not be changed after NewConfig returned.
type Config struct {
	URL            string
	AllowedMethods map[string]bool
}

// NewConfig validates the telemetry URL and the allowed methods. An empty or
// unusable URL is a fatal configuration error, the process must not start.
func NewConfig(rawurl string, methods ...string) (*Config, error) {
	if rawurl == "" {
		return nil, Fail(ErrConfiguration, "CONFIG mismatch", "Telemetry URL is missing")
	}

	parsed, err := urlParser.Parse(rawurl)
	if err != nil {
		return nil, Fail(ErrConfiguration, "CONFIG mismatch", fmt.Sprintf("Telemetry URL is invalid - %s", err))
	}
	u, err := url.Parse(parsed.Href(false))
	if err != nil {
		return nil, Fail(ErrConfiguration, "CONFIG mismatch", fmt.Sprintf("Telemetry URL is invalid - %s", err))
	}
	if scheme := u.Scheme; scheme != "http" && scheme != "https" {
		return nil, Fail(ErrConfiguration, "CONFIG mismatch", fmt.Sprintf("Telemetry URL has unsupported scheme - %s", scheme))
	}
	if u.Hostname() == "" {
		return nil, Fail(ErrConfiguration, "CONFIG mismatch", "Telemetry URL has no host")
	}

	if len(methods) == 0 {
		methods = DefaultMethods
	}
	allowed := make(map[string]bool, len(methods))
	for _, m := range methods {
		allowed[strings.ToUpper(m)] = true
	}

	return &Config{
		URL:            u.String(),
		AllowedMethods: allowed,
	}, nil
}

// IsAllowed reports whether method may be used against the endpoint. The
// check is case sensitive, "post" is not "POST".
func (c *Config) IsAllowed(method string) bool {
	return c.AllowedMethods[method]
}
