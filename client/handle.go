// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-mcp/mcptask"
)

// Handle tracks one background task. A handle may also wrap an invocation
// the server chose to run synchronously; such a handle behaves like an
// already-completed task so callers need only one code path.
type Handle struct {
	client *Client
	taskID string
	kind   mcptask.TaskKind

	mu     sync.Mutex
	result any
	done   bool
}

// newHandle creates a handle tracking a real background task.
func (c *Client) newHandle(taskID string, kind mcptask.TaskKind) *Handle {
	return &Handle{client: c, taskID: taskID, kind: kind}
}

// newImmediateHandle wraps a synchronously produced result.
func (c *Client) newImmediateHandle(kind mcptask.TaskKind, result any) *Handle {
	return &Handle{client: c, kind: kind, result: result, done: true}
}

// TaskID returns the server-assigned task identifier, or "" for a handle
// wrapping a synchronous result.
func (h *Handle) TaskID() string {
	return h.taskID
}

// Kind returns the invocation kind the handle was created from.
func (h *Handle) Kind() mcptask.TaskKind {
	return h.kind
}

// Immediate reports whether the handle wraps a synchronous result.
func (h *Handle) Immediate() bool {
	return h.taskID == ""
}

// Status fetches the task's current view. For an immediate handle it
// synthesizes a completed task without a network round trip.
func (h *Handle) Status(ctx context.Context) (*mcptask.Task, error) {
	if h.Immediate() {
		return &mcptask.Task{Kind: h.kind, Status: mcptask.TaskStatusCompleted}, nil
	}
	return h.client.GetTask(ctx, h.taskID)
}

// Wait polls until the task reaches a terminal state, pacing itself by the
// server's pollInterval hint. An "unknown" status ends the wait: the task
// has expired or was deleted and will never become terminal.
func (h *Handle) Wait(ctx context.Context) (*mcptask.Task, error) {
	for {
		t, err := h.Status(ctx)
		if err != nil {
			return nil, err
		}
		if t.Status.Terminal() || t.Status == mcptask.TaskStatusUnknown {
			return t, nil
		}

		interval := h.client.pollInterval
		if t.PollInterval > 0 {
			interval = time.Duration(t.PollInterval) * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Result waits for the task to finish and retrieves its result, decoded to
// the invocation kind's envelope. The result is fetched once and cached; a
// failed task surfaces as an error-flagged tool result, exactly as the
// server reports it.
func (h *Handle) Result(ctx context.Context) (any, error) {
	h.mu.Lock()
	if h.done {
		result := h.result
		h.mu.Unlock()
		return result, nil
	}
	h.mu.Unlock()

	t, err := h.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if t.Status == mcptask.TaskStatusUnknown {
		return nil, fmt.Errorf("task %s is no longer known to the server", h.taskID)
	}

	params := &mcptask.GetTaskParams{TaskID: h.taskID}
	var result any
	switch {
	case t.Status == mcptask.TaskStatusFailed:
		// The server reports every failed task as an error-flagged tool
		// result, whatever the kind, so decode it as one.
		var r mcptask.CallToolResult
		if err := h.client.caller.Call(ctx, mcptask.MethodTasksResult, params, &r); err != nil {
			return nil, fmt.Errorf("fetching result of task %s: %w", h.taskID, err)
		}
		result = &r
	case h.kind == mcptask.TaskKindToolCall:
		var r mcptask.CallToolResult
		if err := h.client.caller.Call(ctx, mcptask.MethodTasksResult, params, &r); err != nil {
			return nil, fmt.Errorf("fetching result of task %s: %w", h.taskID, err)
		}
		result = &r
	case h.kind == mcptask.TaskKindPromptGet:
		var r mcptask.GetPromptResult
		if err := h.client.caller.Call(ctx, mcptask.MethodTasksResult, params, &r); err != nil {
			return nil, fmt.Errorf("fetching result of task %s: %w", h.taskID, err)
		}
		result = &r
	case h.kind == mcptask.TaskKindResourceRead:
		var r mcptask.ReadResourceResult
		if err := h.client.caller.Call(ctx, mcptask.MethodTasksResult, params, &r); err != nil {
			return nil, fmt.Errorf("fetching result of task %s: %w", h.taskID, err)
		}
		result = &r
	default:
		return nil, fmt.Errorf("unknown task kind %q", h.kind)
	}

	h.mu.Lock()
	h.result = result
	h.done = true
	h.mu.Unlock()
	return result, nil
}

// ToolResult is Result typed for a tool-call task.
func (h *Handle) ToolResult(ctx context.Context) (*mcptask.CallToolResult, error) {
	raw, err := h.Result(ctx)
	if err != nil {
		return nil, err
	}
	result, ok := raw.(*mcptask.CallToolResult)
	if !ok {
		return nil, fmt.Errorf("task %s is not a tool call", h.taskID)
	}
	return result, nil
}

// PromptResult is Result typed for a prompt-get task. A failed task returns
// an error carrying the failure message.
func (h *Handle) PromptResult(ctx context.Context) (*mcptask.GetPromptResult, error) {
	raw, err := h.Result(ctx)
	if err != nil {
		return nil, err
	}
	if err := failureError(h.taskID, raw); err != nil {
		return nil, err
	}
	result, ok := raw.(*mcptask.GetPromptResult)
	if !ok {
		return nil, fmt.Errorf("task %s is not a prompt", h.taskID)
	}
	return result, nil
}

// ResourceResult is Result typed for a resource-read task. A failed task
// returns an error carrying the failure message.
func (h *Handle) ResourceResult(ctx context.Context) (*mcptask.ReadResourceResult, error) {
	raw, err := h.Result(ctx)
	if err != nil {
		return nil, err
	}
	if err := failureError(h.taskID, raw); err != nil {
		return nil, err
	}
	result, ok := raw.(*mcptask.ReadResourceResult)
	if !ok {
		return nil, fmt.Errorf("task %s is not a resource read", h.taskID)
	}
	return result, nil
}

// failureError converts the server's error-flagged failure envelope into an
// error value for kinds whose own envelope cannot express failure.
func failureError(taskID string, raw any) error {
	failure, ok := raw.(*mcptask.CallToolResult)
	if !ok || !failure.IsError {
		return nil
	}
	message := "task failed"
	if len(failure.Content) > 0 && failure.Content[0].Text != "" {
		message = failure.Content[0].Text
	}
	return fmt.Errorf("task %s failed: %s", taskID, message)
}

// Cancel requests best-effort cancellation. Cancelling an immediate handle
// is a no-op reporting the completed status.
func (h *Handle) Cancel(ctx context.Context) (*mcptask.Task, error) {
	if h.Immediate() {
		return h.Status(ctx)
	}
	return h.client.CancelTask(ctx, h.taskID)
}

// Delete removes the task and its stored result from the server.
func (h *Handle) Delete(ctx context.Context) error {
	if h.Immediate() {
		return nil
	}
	return h.client.DeleteTask(ctx, h.taskID)
}
