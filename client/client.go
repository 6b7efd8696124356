// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

// Package client provides the caller side of the task protocol: issuing
// task-augmented invocations and tracking the resulting background tasks
// through lightweight handles.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-mcp/mcptask"
)

// Caller issues one JSON-RPC request and decodes the result into the given
// value. Transports implement it; tests substitute fakes.
type Caller interface {
	Call(ctx context.Context, method string, params, result any) error
}

// Client issues task-augmented invocations over a Caller.
type Client struct {
	caller       Caller
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithPollInterval sets the fallback polling cadence used when the server
// does not suggest one.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) { c.pollInterval = interval }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client over the given transport.
func New(caller Caller, opts ...Option) (*Client, error) {
	if caller == nil {
		return nil, fmt.Errorf("caller cannot be nil")
	}
	c := &Client{
		caller:       caller,
		pollInterval: mcptask.DefaultPollInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CallToolAsTask invokes a tool with a task directive. When the server
// accepts the directive the handle tracks the background task; when the
// server degrades to synchronous execution the handle wraps the completed
// result directly.
func (c *Client) CallToolAsTask(ctx context.Context, params *mcptask.CallToolParams) (*Handle, error) {
	if params.Task == nil {
		params.Task = &mcptask.TaskMetadata{}
	}

	var result mcptask.CallToolResult
	if err := c.caller.Call(ctx, mcptask.MethodToolsCall, params, &result); err != nil {
		return nil, fmt.Errorf("calling tool %s: %w", params.Name, err)
	}
	if taskID, ok := result.Meta.TaskID(); ok {
		return c.newHandle(taskID, mcptask.TaskKindToolCall), nil
	}
	return c.newImmediateHandle(mcptask.TaskKindToolCall, &result), nil
}

// GetPromptAsTask invokes a prompt with a task directive.
func (c *Client) GetPromptAsTask(ctx context.Context, params *mcptask.GetPromptParams) (*Handle, error) {
	if params.Task == nil {
		params.Task = &mcptask.TaskMetadata{}
	}

	var result mcptask.GetPromptResult
	if err := c.caller.Call(ctx, mcptask.MethodPromptsGet, params, &result); err != nil {
		return nil, fmt.Errorf("getting prompt %s: %w", params.Name, err)
	}
	if taskID, ok := result.Meta.TaskID(); ok {
		return c.newHandle(taskID, mcptask.TaskKindPromptGet), nil
	}
	return c.newImmediateHandle(mcptask.TaskKindPromptGet, &result), nil
}

// ReadResourceAsTask reads a resource with a task directive.
func (c *Client) ReadResourceAsTask(ctx context.Context, params *mcptask.ReadResourceParams) (*Handle, error) {
	if params.Task == nil {
		params.Task = &mcptask.TaskMetadata{}
	}

	var result mcptask.ReadResourceResult
	if err := c.caller.Call(ctx, mcptask.MethodResourcesRead, params, &result); err != nil {
		return nil, fmt.Errorf("reading resource %s: %w", params.URI, err)
	}
	if taskID, ok := result.Meta.TaskID(); ok {
		return c.newHandle(taskID, mcptask.TaskKindResourceRead), nil
	}
	return c.newImmediateHandle(mcptask.TaskKindResourceRead, &result), nil
}

// GetTask fetches the current view of a task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*mcptask.Task, error) {
	var t mcptask.Task
	err := c.caller.Call(ctx, mcptask.MethodTasksGet, &mcptask.GetTaskParams{TaskID: taskID}, &t)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", taskID, err)
	}
	return &t, nil
}

// ListTasks fetches one page of the session's tasks.
func (c *Client) ListTasks(ctx context.Context, params *mcptask.ListTasksParams) (*mcptask.ListTasksResult, error) {
	if params == nil {
		params = &mcptask.ListTasksParams{}
	}
	var result mcptask.ListTasksResult
	if err := c.caller.Call(ctx, mcptask.MethodTasksList, params, &result); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return &result, nil
}

// CancelTask requests best-effort cancellation and returns the task's actual
// resulting status.
func (c *Client) CancelTask(ctx context.Context, taskID string) (*mcptask.Task, error) {
	var t mcptask.Task
	err := c.caller.Call(ctx, mcptask.MethodTasksCancel, &mcptask.GetTaskParams{TaskID: taskID}, &t)
	if err != nil {
		return nil, fmt.Errorf("cancelling task %s: %w", taskID, err)
	}
	return &t, nil
}

// DeleteTask removes a task and its stored result.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	var result mcptask.EmptyResult
	err := c.caller.Call(ctx, mcptask.MethodTasksDelete, &mcptask.GetTaskParams{TaskID: taskID}, &result)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	return nil
}
