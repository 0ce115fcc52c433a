// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"errors"
	"fmt"
)

// Kinds of failures, use errors.Is to match an *Error against them.
var (
	// ErrConfiguration is the kind for invalid static configuration, this
	// includes a disallowed HTTP method passed to the RequestBuilder.
	ErrConfiguration = errors.New("ConfigurationError")
	// ErrInvalidPayload is the kind for inbound event payloads that are
	// missing required keys or carry wrong-typed values.
	ErrInvalidPayload = errors.New("InvalidPayloadError")
	// ErrTransport is the kind for network and HTTP layer failures.
	ErrTransport = errors.New("TransportError")
)

// Error is the single error type used across the telemetry path. It carries
// a name and a message, the same way the failures have always been
// reported, plus the kind they belong to.
type Error struct {
	Kind    error
	Name    string
	Message string

	// Summary is set for transport errors that still received an HTTP
	// response, i.e. a 4xx or 5xx status.
	Summary *Summary

	cause error
}

func (e *Error) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Fail constructs a named error of the given kind. It never returns nil,
// callers are expected to return the result right away.
func Fail(kind error, name string, message string) error {
	return &Error{
		Kind:    kind,
		Name:    name,
		Message: message,
	}
}

// wrapFail is like Fail but keeps cause in the chain.
func wrapFail(kind error, name string, cause error) error {
	return &Error{
		Kind:    kind,
		Name:    name,
		Message: cause.Error(),
		cause:   cause,
	}
}
