// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"devcon-telemetry/internal/telemetry"
)

var (
	// Debug enables debug logging, it takes precedence over LogLevel.
	Debug    bool
	LogLevel string = "info"

	// ListenHost is the host where the event ingress API listens.
	ListenHost string = "127.0.0.1"
	ListenPort int    = 8080

	// HealthcheckListenPort is the port where the healthcheck listens on,
	// it uses the same host as ListenHost.
	HealthcheckListenPort int = 10241

	// TelemetryURL is the ingestion endpoint. It is read once at startup and
	// never changes afterwards.
	TelemetryURL string = telemetry.DefaultURL

	// SendTimeout bounds each telemetry request, 0 disables the deadline.
	SendTimeout time.Duration = telemetry.DefaultTimeout

	UserAgent string = "DevconTelemetry/1.0"

	// UseTracing, UseMetrics and UsePulse enable the respective kinds of
	// observability.
	UseTracing bool
	UseMetrics bool
	UsePulse   bool

	// PulseEndpoint is where high frequency metrics are pushed to, see
	// cmd/pulse.
	PulseEndpoint string = "http://127.0.0.1:8090"
)

const (
	// MaxDeliveries is the number of delivery outcomes kept for inspection.
	MaxDeliveries = 10000
	// DeliveryTTL is how long a delivery outcome is kept at most.
	DeliveryTTL = 1 * time.Hour

	// MaxEventSize limits the size of an event detail received over HTTP.
	MaxEventSize = 1 << 20
)

func configure() {
	var flagHost string
	var flagPort int
	var flagHealthcheckPort int
	var flagDebug bool
	var flagTelemetryURL string
	var flagTimeout time.Duration
	var flagObserve string

	flag.StringVar(&flagHost, "host", "", "Host interface to bind the HTTP server to")
	flag.IntVar(&flagPort, "port", 0, "Port to bind the HTTP server to")
	flag.IntVar(&flagHealthcheckPort, "healthcheck-port", 0, "Port to bind the healthcheck server to")
	flag.BoolVar(&flagDebug, "debug", Debug, "Enable debug mode")
	flag.StringVar(&flagTelemetryURL, "telemetry-url", "", "Telemetry ingestion endpoint to forward events to")
	flag.DurationVar(&flagTimeout, "timeout", SendTimeout, "Deadline for a single telemetry request, 0 disables it")
	flag.StringVar(&flagObserve, "observe", "", "Comma separated list of observability to enable: metrics, traces, pulse")
	flag.Parse()

	if isFlagPassed("debug") {
		Debug = flagDebug
	} else {
		Debug = GetEnvBool("DEVCON_DEBUG", Debug)
	}
	if Debug {
		LogLevel = "debug"
	} else {
		LogLevel = GetEnvString("DEVCON_LOG_LEVEL", LogLevel)
	}

	if flagHost != "" {
		ListenHost = flagHost
	} else if v := os.Getenv("DEVCON_HOST"); v != "" {
		ListenHost = v
	}
	if flagPort != 0 {
		ListenPort = flagPort
	} else if v := os.Getenv("DEVCON_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		ListenPort = p
	}
	if flagHealthcheckPort != 0 {
		HealthcheckListenPort = flagHealthcheckPort
	} else {
		HealthcheckListenPort = GetEnvInt("DEVCON_HEALTHCHECK_PORT", HealthcheckListenPort)
	}

	if isFlagPassed("telemetry-url") {
		TelemetryURL = flagTelemetryURL
	} else if v, ok := os.LookupEnv("DEVCON_TELEMETRY_URL"); ok {
		TelemetryURL = v
	}

	if isFlagPassed("timeout") {
		SendTimeout = flagTimeout
	} else {
		SendTimeout = GetEnvDuration("DEVCON_SEND_TIMEOUT", SendTimeout)
	}
	if SendTimeout == 0 {
		slog.Warn("Telemetry requests have no deadline!")
	}

	PulseEndpoint = GetEnvString("DEVCON_PULSE_ENDPOINT", PulseEndpoint)

	var v string
	if isFlagPassed("observe") {
		v = flagObserve
	} else {
		v = os.Getenv("DEVCON_OBSERVE")
	}
	UseTracing, UseMetrics, UsePulse = parseObserve(v)
}

// telemetryConfig validates the configured telemetry endpoint. It must run
// before anything is started, a broken URL stops the process.
func telemetryConfig() (*telemetry.Config, error) {
	return telemetry.NewConfig(TelemetryURL, telemetry.DefaultMethods...)
}

// parseObserve parses the comma separated observability list.
func parseObserve(v string) (tracing bool, metrics bool, pulse bool) {
	for _, item := range strings.Split(v, ",") {
		switch strings.ToLower(strings.TrimSpace(item)) {
		case "traces", "tracing":
			tracing = true
		case "metrics":
			metrics = true
		case "pulse":
			pulse = true
		}
	}
	return tracing, metrics, pulse
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
