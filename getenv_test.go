package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("SET_STRING_GETENV", "env-has-set")

	value := GetEnvString("SET_STRING_GETENV", "default-string-value")
	value2 := GetEnvString("NOT_SET_STRING_GETENV", "default-string-value")

	assert.Equal(t, "env-has-set", value)
	assert.Equal(t, "default-string-value", value2)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SET_BOOL_GETENV", "true")
	t.Setenv("BROKEN_BOOL_GETENV", "maybe")

	assert.Equal(t, true, GetEnvBool("SET_BOOL_GETENV", false))
	assert.Equal(t, false, GetEnvBool("NOT_SET_BOOL_GETENV", false))
	assert.Equal(t, true, GetEnvBool("BROKEN_BOOL_GETENV", true))

	for _, v := range []string{"YES", "y", "On", "1"} {
		t.Setenv("FORGIVING_BOOL_GETENV", v)
		assert.Equal(t, true, GetEnvBool("FORGIVING_BOOL_GETENV", false), v)
	}
	for _, v := range []string{"no", "OFF", "0"} {
		t.Setenv("FORGIVING_BOOL_GETENV", v)
		assert.Equal(t, false, GetEnvBool("FORGIVING_BOOL_GETENV", true), v)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SET_INT_GETENV", "20")

	assert.Equal(t, 20, GetEnvInt("SET_INT_GETENV", 10))
	assert.Equal(t, 10, GetEnvInt("NOT_SET_INT_GETENV", 10))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("SET_DURATION_GETENV", "1500ms")
	t.Setenv("BROKEN_DURATION_GETENV", "soon")

	assert.Equal(t, 1500*time.Millisecond, GetEnvDuration("SET_DURATION_GETENV", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("NOT_SET_DURATION_GETENV", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("BROKEN_DURATION_GETENV", time.Second))
}
