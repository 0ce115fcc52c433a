// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kos-v/dsnparser"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// maybeRedis connects to Redis, when a DSN has been configured. Without one
// events can only be received over HTTP.
func maybeRedis(ctx context.Context) (*redis.Client, error) {
	rawdsn, ok := os.LookupEnv("DEVCON_REDIS_DSN")
	if !ok || rawdsn == "" {
		return nil, nil
	}
	slog.Debug("Connecting to Redis...", "dsn", rawdsn)

	client, err := backoff.RetryNotifyWithData(
		func() (*redis.Client, error) {
			client := redis.NewClient(redisOptionsFromDSN(rawdsn))
			_, err := client.Ping(ctx).Result()
			return client, err
		},
		backoff.WithContext(backoff.NewExponentialBackOff(), ctx),
		func(err error, t time.Duration) {
			slog.Info("Retrying redis connection.", "error", err)
		},
	)

	if err != nil {
		return nil, fmt.Errorf("ultimately failed retrying redis connection: %w", err)
	}
	slog.Debug("Connection to Redis established :)")

	if UseTracing {
		if err := redisotel.InstrumentTracing(client); err != nil {
			return client, err
		}
	}
	if UseMetrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			return client, err
		}
	}
	return client, nil
}

// redisOptionsFromDSN turns i.e. redis://:secret@localhost:6379/2 into
// options, the path selects the database.
func redisOptionsFromDSN(rawdsn string) *redis.Options {
	dsn := dsnparser.Parse(rawdsn)
	database, _ := strconv.Atoi(dsn.GetPath())

	port := dsn.GetPort()
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", dsn.GetHost(), port),
		Password: dsn.GetPassword(),
		DB:       database,
	}
}
