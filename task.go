// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package mcptask

import (
	"fmt"
	"time"
)

// TaskStatus is the public lifecycle state of a task.
//
// Tasks begin in "working" and move exactly once into one of the terminal
// states. "unknown" is never stored; it is the lookup result for a task that
// does not exist, has expired, or belongs to another session.
type TaskStatus string

const (
	// TaskStatusWorking indicates the task has been accepted and has not
	// reached a terminal state.
	TaskStatusWorking TaskStatus = "working"

	// TaskStatusInputRequired is reserved for a future interactive-input
	// workflow. No transition into or out of it is implemented.
	TaskStatusInputRequired TaskStatus = "input_required"

	// TaskStatusCompleted indicates the work finished and a result is
	// retrievable.
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusFailed indicates the work raised an error; the message is
	// carried on the task record.
	TaskStatusFailed TaskStatus = "failed"

	// TaskStatusCancelled indicates the task was cancelled before its work
	// produced a result.
	TaskStatusCancelled TaskStatus = "cancelled"

	// TaskStatusUnknown is the lookup result for a missing, expired, or
	// foreign-session task. It is not a stored state.
	TaskStatusUnknown TaskStatus = "unknown"
)

// Terminal reports whether the status is one a task never leaves.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is a recognized status value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusWorking, TaskStatusInputRequired, TaskStatusCompleted,
		TaskStatusFailed, TaskStatusCancelled, TaskStatusUnknown:
		return true
	}
	return false
}

// TaskKind identifies which invocation kind produced a task. It selects the
// result converter used by tasks/result.
type TaskKind string

const (
	// TaskKindToolCall marks a task created from tools/call.
	TaskKindToolCall TaskKind = "tool-call"
	// TaskKindPromptGet marks a task created from prompts/get.
	TaskKindPromptGet TaskKind = "prompt-get"
	// TaskKindResourceRead marks a task created from resources/read.
	TaskKindResourceRead TaskKind = "resource-read"
)

// Valid reports whether k is a recognized task kind.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskKindToolCall, TaskKindPromptGet, TaskKindResourceRead:
		return true
	}
	return false
}

// TaskMetadata is the caller-supplied directive attached to an invocation to
// request background execution.
type TaskMetadata struct {
	// TTL is the requested retention period, in milliseconds, for the task
	// record and its result. Zero means the server default.
	TTL int64 `json:"ttl,omitempty"`
}

// Duration returns the requested TTL as a duration, or def when unset.
func (m *TaskMetadata) Duration(def time.Duration) time.Duration {
	if m == nil || m.TTL <= 0 {
		return def
	}
	return time.Duration(m.TTL) * time.Millisecond
}

// Task is the caller-visible view of one unit of deferred work. It is the
// result shape of tasks/get and tasks/cancel and the element type of
// tasks/list pages.
type Task struct {
	// TaskID is the server-generated unique identifier. Callers never
	// choose it.
	TaskID string `json:"taskId"`

	// Kind identifies the originating invocation kind. Omitted on
	// "unknown" lookups.
	Kind TaskKind `json:"kind,omitempty"`

	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"createdAt,omitzero"`

	// TTL is the caller-meaningful retention period in milliseconds. The
	// stored expiry may exceed it; this field never reflects that buffer.
	TTL int64 `json:"ttl,omitempty"`

	// PollInterval is the server-suggested polling cadence in milliseconds.
	PollInterval int64 `json:"pollInterval,omitempty"`

	// StatusMessage is an optional human-readable description of the
	// current state.
	StatusMessage string `json:"statusMessage,omitempty"`

	// Error carries a short failure message when Status is "failed".
	Error string `json:"error,omitempty"`
}

// Validate checks the structural invariants of a task.
func (t *Task) Validate() error {
	if t.TaskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid task status: %q", t.Status)
	}
	if t.Kind != "" && !t.Kind.Valid() {
		return fmt.Errorf("invalid task kind: %q", t.Kind)
	}
	if t.Error != "" && t.Status != TaskStatusFailed {
		return fmt.Errorf("error message present on non-failed task %s", t.TaskID)
	}
	return nil
}

// UnknownTask returns the lookup result reported for a task that cannot be
// resolved in the caller's session. It is indistinguishable from the result
// for a task that never existed.
func UnknownTask(taskID string) *Task {
	return &Task{
		TaskID: taskID,
		Status: TaskStatusUnknown,
	}
}
