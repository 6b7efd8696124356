// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package mcptask

// TasksCapability is the static declaration, advertised once at session
// setup, of which task operations and invocation kinds a server supports.
// It is not re-checked per call: a task directive on an unadvertised kind
// still degrades gracefully to synchronous execution.
type TasksCapability struct {
	// List indicates the server implements tasks/list.
	List bool `json:"list,omitempty"`
	// Cancel indicates the server implements tasks/cancel.
	Cancel bool `json:"cancel,omitempty"`
	// Requests names the invocation kinds that accept a task directive.
	Requests TaskRequestsCapability `json:"requests"`
}

// TaskRequestsCapability names the invocation kinds that support background
// execution.
type TaskRequestsCapability struct {
	ToolsCall     bool `json:"tools/call,omitempty"`
	PromptsGet    bool `json:"prompts/get,omitempty"`
	ResourcesRead bool `json:"resources/read,omitempty"`
}

// Supports reports whether the given invocation method is advertised.
func (c TasksCapability) Supports(method string) bool {
	switch method {
	case MethodToolsCall:
		return c.Requests.ToolsCall
	case MethodPromptsGet:
		return c.Requests.PromptsGet
	case MethodResourcesRead:
		return c.Requests.ResourcesRead
	}
	return false
}
