// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package mcptask

// Reserved _meta keys used by the task protocol.
const (
	// MetaTaskKey carries {taskId, status} on the stub response returned
	// when an invocation is accepted for background execution.
	MetaTaskKey = "modelcontextprotocol.io/task"

	// MetaRelatedTaskKey carries {taskId} on messages that refer back to an
	// existing task: tasks/result payloads, tasks/delete confirmations, and
	// the task-created notification. tasks/get and tasks/cancel responses
	// never carry it.
	MetaRelatedTaskKey = "modelcontextprotocol.io/related-task"
)

// Meta is the out-of-band metadata channel attached to results and
// notifications. It is never mixed into primary content.
type Meta map[string]any

// NewTaskMeta builds the stub-response metadata announcing a new task.
func NewTaskMeta(taskID string, status TaskStatus) Meta {
	return Meta{
		MetaTaskKey: map[string]any{
			"taskId": taskID,
			"status": string(status),
		},
	}
}

// NewRelatedTaskMeta builds the metadata tag that links a message back to an
// existing task.
func NewRelatedTaskMeta(taskID string) Meta {
	return Meta{
		MetaRelatedTaskKey: map[string]any{
			"taskId": taskID,
		},
	}
}

// RelatedTaskID extracts the task ID from related-task metadata.
func (m Meta) RelatedTaskID() (string, bool) {
	return m.taskID(MetaRelatedTaskKey)
}

// TaskID extracts the task ID from stub-response task metadata.
func (m Meta) TaskID() (string, bool) {
	return m.taskID(MetaTaskKey)
}

// TaskStatus extracts the status from stub-response task metadata.
func (m Meta) TaskStatus() (TaskStatus, bool) {
	entry, ok := m[MetaTaskKey].(map[string]any)
	if !ok {
		return "", false
	}
	status, ok := entry["status"].(string)
	return TaskStatus(status), ok
}

func (m Meta) taskID(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	entry, ok := m[key].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := entry["taskId"].(string)
	return id, ok
}
