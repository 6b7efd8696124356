// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-mcp/mcptask"
	"github.com/go-mcp/mcptask/server/task"
)

// execKey builds the executor key for a task. Session and task identifiers
// together are unique, so executions never collide across sessions.
func execKey(sessionID, taskID string) string {
	return sessionID + ":" + taskID
}

// CallTool handles tools/call. With a task directive on a tool that allows
// background execution it returns a stub immediately; otherwise it runs the
// tool synchronously.
func (s *Server) CallTool(ctx context.Context, sessionID string, params *mcptask.CallToolParams) (any, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.tools/call",
		trace.WithAttributes(attribute.String("tool.name", params.Name)))
	defer span.End()

	tool, ok := s.registry.Tool(params.Name)
	if !ok {
		return nil, mcptask.NewInvalidParamsError("unknown tool: " + params.Name)
	}
	if err := s.registry.ValidateToolArgs(tool, params.Arguments); err != nil {
		return nil, mcptask.NewInvalidParamsError(err.Error())
	}

	asTask, err := resolveTaskMode(tool.TaskMode, params.Task, params.Name)
	if err != nil {
		return nil, err
	}

	args := anyArgs(params.Arguments)
	if !asTask {
		raw, err := tool.Handler(ctx, args)
		if err != nil {
			return failureResult(err.Error()), nil
		}
		return convertToolResult(raw, params.Name)
	}

	taskID, err := s.createTask(ctx, sessionID, mcptask.TaskKindToolCall,
		params.Name, toolFnKey(params.Name), args, params.Task)
	if err != nil {
		return nil, err
	}
	return &mcptask.CallToolResult{
		Content: []mcptask.ContentBlock{},
		Meta:    mcptask.NewTaskMeta(taskID, mcptask.TaskStatusWorking),
	}, nil
}

// GetPrompt handles prompts/get, with the same task semantics as CallTool.
func (s *Server) GetPrompt(ctx context.Context, sessionID string, params *mcptask.GetPromptParams) (any, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.prompts/get",
		trace.WithAttributes(attribute.String("prompt.name", params.Name)))
	defer span.End()

	prompt, ok := s.registry.Prompt(params.Name)
	if !ok {
		return nil, mcptask.NewInvalidParamsError("unknown prompt: " + params.Name)
	}

	asTask, err := resolveTaskMode(prompt.TaskMode, params.Task, params.Name)
	if err != nil {
		return nil, err
	}

	args := make(map[string]any, len(params.Arguments))
	for k, v := range params.Arguments {
		args[k] = v
	}

	if !asTask {
		raw, err := prompt.Handler(ctx, args)
		if err != nil {
			return nil, mcptask.NewInternalError(err.Error())
		}
		return convertPromptResult(raw, params.Name)
	}

	taskID, err := s.createTask(ctx, sessionID, mcptask.TaskKindPromptGet,
		params.Name, promptFnKey(params.Name), args, params.Task)
	if err != nil {
		return nil, err
	}
	return &mcptask.GetPromptResult{
		Messages: []mcptask.PromptMessage{},
		Meta:     mcptask.NewTaskMeta(taskID, mcptask.TaskStatusWorking),
	}, nil
}

// ReadResource handles resources/read, with the same task semantics as
// CallTool.
func (s *Server) ReadResource(ctx context.Context, sessionID string, params *mcptask.ReadResourceParams) (any, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.resources/read",
		trace.WithAttributes(attribute.String("resource.uri", params.URI)))
	defer span.End()

	resource, ok := s.registry.Resource(params.URI)
	if !ok {
		return nil, mcptask.NewInvalidParamsError("unknown resource: " + params.URI)
	}

	asTask, err := resolveTaskMode(resource.TaskMode, params.Task, params.URI)
	if err != nil {
		return nil, err
	}

	if !asTask {
		raw, err := resource.Handler(ctx, nil)
		if err != nil {
			return nil, mcptask.NewInternalError(err.Error())
		}
		return convertResourceResult(raw, params.URI)
	}

	taskID, err := s.createTask(ctx, sessionID, mcptask.TaskKindResourceRead,
		params.URI, resourceFnKey(params.URI), nil, params.Task)
	if err != nil {
		return nil, err
	}
	return &mcptask.ReadResourceResult{
		Contents: []mcptask.ResourceContents{},
		Meta:     mcptask.NewTaskMeta(taskID, mcptask.TaskStatusWorking),
	}, nil
}

// resolveTaskMode decides whether the invocation runs as a task. A directive
// on a forbidden component degrades silently to synchronous execution; a
// missing directive on a required component is a protocol error.
func resolveTaskMode(mode TaskMode, directive *mcptask.TaskMetadata, component string) (bool, error) {
	switch mode {
	case TaskForbidden:
		return false, nil
	case TaskRequired:
		if directive == nil {
			return false, mcptask.NewTaskRequiredError(component)
		}
		return true, nil
	default:
		return directive != nil, nil
	}
}

// createTask persists the task record, notifies the session, and enqueues
// the work. The notification goes out before the work is enqueued so a
// client reacting to it can always resolve the task.
func (s *Server) createTask(ctx context.Context, sessionID string, kind mcptask.TaskKind, source, fn string, args map[string]any, directive *mcptask.TaskMetadata) (string, error) {
	taskID := uuid.New().String()
	now := time.Now().UTC()
	ttl := directive.Duration(s.cfg.DefaultTTL.Std())
	storedTTL := ttl + s.cfg.TTLBuffer.Std()

	record := &task.Record{
		SessionID: sessionID,
		TaskID:    taskID,
		Kind:      kind,
		Source:    source,
		CreatedAt: now,
		TTL:       ttl,
		ExpiresAt: now.Add(storedTTL),
	}
	if err := s.store.Save(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "saving task record failed",
			"taskID", taskID, "error", err)
		return "", mcptask.NewInternalError("failed to create task")
	}

	if err := s.notifier.TaskCreated(ctx, sessionID, taskID); err != nil {
		s.logger.WarnContext(ctx, "task created notification failed",
			"taskID", taskID, "error", err)
	}

	if err := s.exec.Enqueue(ctx, execKey(sessionID, taskID), fn, args, storedTTL); err != nil {
		s.logger.ErrorContext(ctx, "enqueuing task failed",
			"taskID", taskID, "error", err)
		if delErr := s.store.Delete(ctx, sessionID, taskID); delErr != nil {
			s.logger.WarnContext(ctx, "cleaning up task record failed",
				"taskID", taskID, "error", delErr)
		}
		return "", mcptask.NewInternalError("failed to schedule task")
	}

	s.logger.InfoContext(ctx, "task created",
		"taskID", taskID, "kind", string(kind), "source", source, "ttl", ttl)
	return taskID, nil
}

// anyArgs normalizes a possibly nil argument map.
func anyArgs(args map[string]any) map[string]any {
	if args == nil {
		return map[string]any{}
	}
	return args
}
