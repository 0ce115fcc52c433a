package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString gets the environment variable for a key and if that env-var hasn't been set it returns the default value
func GetEnvString(key string, defaultVal string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		value = defaultVal
	}

	slog.Debug("Set Environment ", "key", key, "value", value)

	return value
}

// GetEnvBool gets the environment variable for a key and if that env-var hasn't been set it returns the default value. Besides what strconv.ParseBool accepts, "yes", "y" and "on" count as true and "no", "n" and "off" as false.
func GetEnvBool(key string, defaultVal bool) bool {
	envvalue := os.Getenv(key)
	if len(envvalue) == 0 {
		return defaultVal
	}

	value, err := strconv.ParseBool(envvalue)
	if err != nil {
		switch strings.ToLower(envvalue) {
		case "yes", "y", "on":
			value = true
		case "no", "n", "off":
			value = false
		default:
			return defaultVal
		}
	}

	slog.Debug("Set Environment ", "key", key, "value", value)

	return value
}

// GetEnvInt gets the environment variable for a key and if that env-var hasn't been set it returns the default value. This function is equivalent to ParseInt(s, 10, 0) to convert env-vars to type int
func GetEnvInt(key string, defaultVal int) int {
	envvalue := os.Getenv(key)
	value, err := strconv.Atoi(envvalue)

	if len(envvalue) == 0 || err != nil {
		value := defaultVal
		return value
	}

	slog.Debug("Set Environment ", "key", key, "value", value)

	return value
}

// GetEnvDuration gets the environment variable for a key and if that env-var hasn't been set it returns the default value. Values are parsed with time.ParseDuration, i.e. "5s".
func GetEnvDuration(key string, defaultVal time.Duration) time.Duration {
	envvalue := os.Getenv(key)
	value, err := time.ParseDuration(envvalue)
	if len(envvalue) == 0 || err != nil {
		value := defaultVal
		return value
	}

	slog.Debug("Set Environment ", "key", key, "value", value)

	return value
}
