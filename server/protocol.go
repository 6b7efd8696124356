// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-mcp/mcptask"
	"github.com/go-mcp/mcptask/server/executor"
	"github.com/go-mcp/mcptask/server/task"
)

// statusFromState maps the executor's internal state onto the public status
// vocabulary. Everything before a terminal state is "working".
func statusFromState(state executor.State) mcptask.TaskStatus {
	switch state {
	case executor.StateCompleted:
		return mcptask.TaskStatusCompleted
	case executor.StateFailed:
		return mcptask.TaskStatusFailed
	case executor.StateCancelled:
		return mcptask.TaskStatusCancelled
	default:
		return mcptask.TaskStatusWorking
	}
}

// statusMessages gives each status a short human-readable description.
var statusMessages = map[mcptask.TaskStatus]string{
	mcptask.TaskStatusWorking:   "task is running",
	mcptask.TaskStatusCompleted: "task completed successfully",
	mcptask.TaskStatusFailed:    "task failed",
	mcptask.TaskStatusCancelled: "task was cancelled",
}

// taskView assembles the caller-visible task from the stored record and the
// executor's live state. The reported TTL is always the caller-requested
// value, never the buffered retention.
func (s *Server) taskView(ctx context.Context, record *task.Record) (*mcptask.Task, error) {
	state, err := s.exec.State(ctx, execKey(record.SessionID, record.TaskID))
	if errors.Is(err, executor.ErrNotFound) {
		// A live record with no executor bookkeeping is a task that has
		// been accepted but not yet enqueued. The created notification
		// fires in that window, so it must already read as working.
		state = executor.StateScheduled
		err = nil
	}
	if err != nil {
		return nil, err
	}

	status := statusFromState(state)
	t := &mcptask.Task{
		TaskID:        record.TaskID,
		Kind:          record.Kind,
		Status:        status,
		CreatedAt:     record.CreatedAt,
		TTL:           record.TTL.Milliseconds(),
		PollInterval:  s.cfg.PollInterval.Std().Milliseconds(),
		StatusMessage: statusMessages[status],
	}

	if status == mcptask.TaskStatusFailed {
		_, resErr := s.exec.Result(ctx, execKey(record.SessionID, record.TaskID))
		var workErr *executor.WorkError
		if errors.As(resErr, &workErr) {
			t.Error = workErr.Message
		}
	}
	return t, nil
}

// GetTask handles tasks/get. Lookup misses are not errors: a missing,
// expired, or foreign-session task reports status "unknown".
func (s *Server) GetTask(ctx context.Context, sessionID string, params *mcptask.GetTaskParams) (*mcptask.Task, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.tasks/get",
		trace.WithAttributes(attribute.String("task.id", params.TaskID)))
	defer span.End()

	record, err := s.store.Get(ctx, sessionID, params.TaskID)
	if err != nil {
		var notFound *task.NotFoundError
		if errors.As(err, &notFound) {
			return mcptask.UnknownTask(params.TaskID), nil
		}
		s.logger.ErrorContext(ctx, "task lookup failed", "taskID", params.TaskID, "error", err)
		return nil, mcptask.NewInternalError("task lookup failed")
	}
	view, err := s.taskView(ctx, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "task state lookup failed", "taskID", params.TaskID, "error", err)
		return nil, mcptask.NewInternalError("task lookup failed")
	}
	return view, nil
}

// TaskResult handles tasks/result. It is only answerable for terminal tasks:
// a working task is a protocol error, a failed task yields an error-flagged
// result, and the response always carries the related-task metadata.
func (s *Server) TaskResult(ctx context.Context, sessionID string, params *mcptask.GetTaskParams) (any, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.tasks/result",
		trace.WithAttributes(attribute.String("task.id", params.TaskID)))
	defer span.End()

	record, err := s.store.Get(ctx, sessionID, params.TaskID)
	if err != nil {
		var notFound *task.NotFoundError
		if errors.As(err, &notFound) {
			return nil, mcptask.NewTaskNotFoundError(params.TaskID)
		}
		s.logger.ErrorContext(ctx, "task lookup failed", "taskID", params.TaskID, "error", err)
		return nil, mcptask.NewInternalError("task lookup failed")
	}

	raw, err := s.exec.Result(ctx, execKey(sessionID, params.TaskID))
	if err != nil {
		var workErr *executor.WorkError
		switch {
		case errors.As(err, &workErr):
			result := failureResult(workErr.Message)
			result.Meta = mcptask.NewRelatedTaskMeta(params.TaskID)
			return result, nil
		case errors.Is(err, executor.ErrNotTerminal):
			return nil, mcptask.NewTaskNotTerminalError(mcptask.TaskStatusWorking)
		case errors.Is(err, executor.ErrCancelled):
			return nil, mcptask.NewTaskCancelledError()
		case errors.Is(err, executor.ErrNotFound):
			// Live record, no bookkeeping yet: the task is still working.
			return nil, mcptask.NewTaskNotTerminalError(mcptask.TaskStatusWorking)
		default:
			s.logger.ErrorContext(ctx, "task result lookup failed", "taskID", params.TaskID, "error", err)
			return nil, mcptask.NewInternalError("task result lookup failed")
		}
	}

	result, err := convertResult(record.Kind, raw, record.Source)
	if err != nil {
		s.logger.ErrorContext(ctx, "task result conversion failed", "taskID", params.TaskID, "error", err)
		return nil, mcptask.NewInternalError("task result conversion failed")
	}
	attachRelatedTask(result, params.TaskID)
	return result, nil
}

// ListTasks handles tasks/list: a paginated view of the session's live
// tasks, ordered by creation time.
func (s *Server) ListTasks(ctx context.Context, sessionID string, params *mcptask.ListTasksParams) (*mcptask.ListTasksResult, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.tasks/list")
	defer span.End()

	offset := 0
	if params.Cursor != "" {
		parsed, err := strconv.Atoi(params.Cursor)
		if err != nil || parsed < 0 {
			return nil, mcptask.NewInvalidParamsError("invalid cursor")
		}
		offset = parsed
	}

	limit := s.cfg.ListPageSize
	if params.Limit > 0 && params.Limit < limit {
		limit = params.Limit
	}

	// One extra record tells us whether another page exists.
	records, err := s.store.List(ctx, sessionID, limit+1, offset)
	if err != nil {
		s.logger.ErrorContext(ctx, "task listing failed", "error", err)
		return nil, mcptask.NewInternalError("task listing failed")
	}

	more := len(records) > limit
	if more {
		records = records[:limit]
	}

	result := &mcptask.ListTasksResult{Tasks: make([]mcptask.Task, 0, len(records))}
	for _, record := range records {
		view, err := s.taskView(ctx, record)
		if err != nil {
			s.logger.ErrorContext(ctx, "task state lookup failed", "taskID", record.TaskID, "error", err)
			return nil, mcptask.NewInternalError("task listing failed")
		}
		result.Tasks = append(result.Tasks, *view)
	}
	if more {
		result.NextCursor = strconv.Itoa(offset + limit)
	}
	return result, nil
}

// CancelTask handles tasks/cancel. Cancellation is best effort: the response
// reports the task's actual status, so cancelling an already-finished task
// returns its real terminal state rather than a false "cancelled". Like
// tasks/get, a missing, expired, or foreign-session task reports status
// "unknown" instead of an error.
func (s *Server) CancelTask(ctx context.Context, sessionID string, params *mcptask.GetTaskParams) (*mcptask.Task, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.tasks/cancel",
		trace.WithAttributes(attribute.String("task.id", params.TaskID)))
	defer span.End()

	record, err := s.store.Get(ctx, sessionID, params.TaskID)
	if err != nil {
		var notFound *task.NotFoundError
		if errors.As(err, &notFound) {
			return mcptask.UnknownTask(params.TaskID), nil
		}
		s.logger.ErrorContext(ctx, "task lookup failed", "taskID", params.TaskID, "error", err)
		return nil, mcptask.NewInternalError("task lookup failed")
	}

	if err := s.exec.Cancel(ctx, execKey(sessionID, params.TaskID)); err != nil && !errors.Is(err, executor.ErrNotFound) {
		s.logger.ErrorContext(ctx, "task cancellation failed", "taskID", params.TaskID, "error", err)
		return nil, mcptask.NewInternalError("task cancellation failed")
	}

	view, err := s.taskView(ctx, record)
	if err != nil {
		s.logger.ErrorContext(ctx, "task state lookup failed", "taskID", params.TaskID, "error", err)
		return nil, mcptask.NewInternalError("task lookup failed")
	}
	s.logger.InfoContext(ctx, "task cancel requested",
		"taskID", params.TaskID, "status", string(view.Status))
	return view, nil
}

// DeleteTask handles tasks/delete. Deletion is idempotent: deleting a
// missing task succeeds, and a live task is cancelled before its record is
// removed.
func (s *Server) DeleteTask(ctx context.Context, sessionID string, params *mcptask.GetTaskParams) (*mcptask.EmptyResult, error) {
	ctx, span := s.tracer.Start(ctx, "mcptask.tasks/delete",
		trace.WithAttributes(attribute.String("task.id", params.TaskID)))
	defer span.End()

	if err := s.exec.Cancel(ctx, execKey(sessionID, params.TaskID)); err != nil && !errors.Is(err, executor.ErrNotFound) {
		s.logger.WarnContext(ctx, "cancelling before delete failed", "taskID", params.TaskID, "error", err)
	}

	if err := s.store.Delete(ctx, sessionID, params.TaskID); err != nil {
		var notFound *task.NotFoundError
		if !errors.As(err, &notFound) {
			s.logger.ErrorContext(ctx, "task deletion failed", "taskID", params.TaskID, "error", err)
			return nil, mcptask.NewInternalError("task deletion failed")
		}
	}

	return &mcptask.EmptyResult{
		Meta: mcptask.NewRelatedTaskMeta(params.TaskID),
	}, nil
}

// attachRelatedTask stamps the related-task metadata onto a typed result.
func attachRelatedTask(result any, taskID string) {
	meta := mcptask.NewRelatedTaskMeta(taskID)
	switch v := result.(type) {
	case *mcptask.CallToolResult:
		v.Meta = meta
	case *mcptask.GetPromptResult:
		v.Meta = meta
	case *mcptask.ReadResourceResult:
		v.Meta = meta
	}
}
