// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devcon-telemetry/internal/events"
	"devcon-telemetry/internal/telemetry"
	"devcon-telemetry/logger"
)

func main() {
	configure()
	logger.Setup(os.Stderr, LogLevel)

	slog.Info("Devcon Telemetry Bridge starting...", "telemetry.url", TelemetryURL)

	// A missing or broken telemetry URL is fatal, we must not start.
	config, err := telemetryConfig()
	if err != nil {
		slog.Error("Invalid configuration, exiting.", "error", err)
		os.Exit(1)
	}
	if Debug {
		slog.Info("Debug mode enabled!")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if UseTracing || UseMetrics {
		shutdownOtel, err := setupOTelSDK(ctx)
		if err != nil {
			panic(err)
		}
		defer shutdownOtel(context.Background())
	}
	if UsePulse {
		startPulse(ctx)
	}

	sender := telemetry.NewSender(
		config,
		CreateTelemetryHTTPClient(UserAgent),
		telemetry.WithTimeout(SendTimeout),
		telemetry.WithTracer(tracer),
	)
	deliveries := telemetry.NewDeliveries(MaxDeliveries, DeliveryTTL)

	target := events.NewTarget()
	telemetry.NewBridge(
		sender,
		telemetry.WithDeliveries(deliveries),
		telemetry.WithErrorHandler(reportUnhandled),
	).Install(target)

	redisconn, err := maybeRedis(ctx)
	if err != nil {
		panic(err)
	}
	// Closed once the source stopped dispatching, nothing sends afterwards.
	sourceDone := make(chan struct{})
	if redisconn != nil {
		source := events.NewRedisSource(redisconn, target, telemetry.EventName)

		go func() {
			defer close(sourceDone)

			if err := source.Run(ctx); err != nil {
				slog.Error("Redis Source: Stopped with error.", "error", err)
			}
		}()
	} else {
		close(sourceDone)
	}

	apiserver := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", ListenHost, ListenPort),
		Handler: setupRoutes(target, deliveries),
	}
	go func() {
		slog.Info("Starting HTTP API server...", "host", ListenHost, "port", ListenPort)
		if err := apiserver.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error.", "error", err)
		}
		slog.Info("Stopped serving new API HTTP connections.")
	}()

	hcserver := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", ListenHost, HealthcheckListenPort),
		Handler: setupHealthcheckRoutes(redisconn),
	}
	go func() {
		slog.Info("Starting HTTP Healthcheck server...", "port", HealthcheckListenPort)
		if err := hcserver.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error.", "error", err)
		}
		slog.Info("Stopped serving new Healthcheck HTTP connections.")
	}()

	<-ctx.Done()
	slog.Info("Exiting...")
	stop() // Exit everything that took the context.

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	apiserver.Shutdown(shutdownCtx)
	hcserver.Shutdown(shutdownCtx)

	<-sourceDone

	// No new events come in anymore, let in-flight telemetry settle.
	sender.Wait()

	if redisconn != nil {
		redisconn.Close()
	}
}
