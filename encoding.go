// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package mcptask

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// DeserializeRequest parses a raw JSON-RPC request.
func DeserializeRequest(data []byte) (*JSONRPCRequest, error) {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("unmarshaling request: %w", err)
	}
	return &req, nil
}

// SerializeResponse encodes a JSON-RPC response for the wire.
func SerializeResponse(resp *JSONRPCResponse) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshaling response: %w", err)
	}
	return data, nil
}

// SerializeNotification encodes a JSON-RPC notification for the wire.
func SerializeNotification(n *JSONRPCNotification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshaling notification: %w", err)
	}
	return data, nil
}

// DecodeParams re-decodes loosely typed request params (typically a
// map[string]any produced by a transport) into a typed parameter struct.
func DecodeParams(params, v any) error {
	if params == nil {
		return nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshaling params: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshaling params: %w", err)
	}
	return nil
}
