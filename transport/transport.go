// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport provides an HTTP binding for the task protocol: requests
// travel as JSON-RPC over POST, and task-created notifications stream to the
// client over Server-Sent Events.
package transport

import (
	crand "crypto/rand"
	"encoding/hex"
)

// SessionHeader carries the session identifier on every HTTP exchange. The
// server assigns it on the first request and the client echoes it back, so
// task visibility is bound to the transport connection rather than request
// payloads.
const SessionHeader = "Mcp-Session-Id"

// newSessionID generates a random session identifier.
func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := crand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
