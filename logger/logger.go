// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Setup installs a leveled console handler as the default slog logger and
// returns it.
func Setup(w io.Writer, level string) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           getLevelByString(level),
	})

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func getLevelByString(level string) log.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return log.DebugLevel
	case "info", "notice":
		return log.InfoLevel
	case "warning", "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "critical", "alert", "panic", "emergency":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}
