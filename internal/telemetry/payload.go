// Copyright 2024 Factorial GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const payloadSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["data", "method"],
	"properties": {
		"data": {"type": "object"},
		"method": {"type": "string"}
	}
}`

var compiledPayloadSchema = jsonschema.MustCompileString("payload.json", payloadSchema)

// Payload is the detail of a telemetry send event.
type Payload struct {
	Data   map[string]any `json:"data"`
	Method string         `json:"method"`
}

// ParsePayload decodes and validates an event detail. Numbers are kept as
// json.Number so that they are forwarded without losing precision.
func ParsePayload(detail []byte) (*Payload, error) {
	var v any

	dec := json.NewDecoder(bytes.NewReader(detail))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, invalidPayload(err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, invalidPayload(errors.New("unexpected data after the payload"))
	}
	if err := compiledPayloadSchema.Validate(v); err != nil {
		return nil, invalidPayload(err)
	}

	// The schema guarantees these assertions hold.
	m := v.(map[string]any)
	return &Payload{
		Data:   m["data"].(map[string]any),
		Method: m["method"].(string),
	}, nil
}

func invalidPayload(cause error) error {
	return &Error{
		Kind:    ErrInvalidPayload,
		Name:    "Invalid payload",
		Message: fmt.Sprintf("Invalid payload for `%s` event - %s", EventName, cause),
		cause:   cause,
	}
}
