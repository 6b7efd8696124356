// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcptask defines the task-augmented execution protocol: the
// vocabulary for deferring a tool call, prompt render, or resource read to
// background execution, and the five caller-facing operations used to poll,
// retrieve, enumerate, cancel, and delete that work.
package mcptask

import "time"

// Version is the current version of the task protocol implementation.
const Version = "0.1.0"

// Task protocol RPC method names.
const (
	// MethodTasksGet is the method name for retrieving task status.
	MethodTasksGet = "tasks/get"
	// MethodTasksResult is the method name for retrieving a task's result payload.
	MethodTasksResult = "tasks/result"
	// MethodTasksList is the method name for listing tasks in the caller's session.
	MethodTasksList = "tasks/list"
	// MethodTasksCancel is the method name for requesting best-effort cancellation.
	MethodTasksCancel = "tasks/cancel"
	// MethodTasksDelete is the method name for removing a task and its data.
	MethodTasksDelete = "tasks/delete"
)

// Invocation method names that accept a task directive.
const (
	// MethodToolsCall is the method name for invoking a tool.
	MethodToolsCall = "tools/call"
	// MethodPromptsGet is the method name for rendering a prompt.
	MethodPromptsGet = "prompts/get"
	// MethodResourcesRead is the method name for reading a resource.
	MethodResourcesRead = "resources/read"
)

// Notification method names.
const (
	// MethodTaskCreatedNotification announces that a task was accepted for
	// background execution. It is sent before the work is enqueued, so a
	// caller that observes it can always resolve the task.
	MethodTaskCreatedNotification = "notifications/tasks/created"
)

// Protocol defaults.
const (
	// DefaultTTL is the retention period applied when the caller's task
	// directive does not carry one.
	DefaultTTL = 60 * time.Second

	// DefaultPollInterval is the suggested cadence for status polling.
	DefaultPollInterval = time.Second

	// DefaultTTLBuffer is added on top of the caller-requested TTL when
	// scheduling storage expiry, leaving slack for a caller that polls
	// right up to the retention boundary. The protocol always reports the
	// caller-requested value, never the buffered one.
	DefaultTTLBuffer = 15 * time.Minute
)
