// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package relay

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Message types for the relay wire protocol
const (
	MessageTypePing    = "ping"
	MessageTypePong    = "pong"
	MessageTypeMessage = "message"
)

var (
	// ErrMalformedFrame is returned when a frame is not a JSON object.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrMissingType is returned when a frame has no usable "type" field.
	ErrMissingType = errors.New("frame has no type")
)

// Envelope is the JSON object carried by every text frame.
// Data is opaque to the relay and is never re-encoded on the broadcast path.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ParseEnvelope decodes raw into an Envelope.
// Anything that is not a JSON object with a non-empty string "type" is rejected.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if env.Type == "" {
		return env, ErrMissingType
	}
	return env, nil
}

// EncodeEnvelope marshals an envelope of the given type with optional data.
func EncodeEnvelope(messageType string, data json.RawMessage) ([]byte, error) {
	return json.Marshal(Envelope{Type: messageType, Data: data})
}

// pingFrame is the probe sent by the liveness monitor on every sweep.
var pingFrame = mustEncode(MessageTypePing)

func mustEncode(messageType string) []byte {
	b, err := EncodeEnvelope(messageType, nil)
	if err != nil {
		panic(fmt.Sprintf("relay: encode %s envelope: %v", messageType, err))
	}
	return b
}
