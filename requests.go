// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package mcptask

// CallToolParams are the parameters of a tools/call invocation. A non-nil
// Task field asks the server to run the tool in the background.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Task      *TaskMetadata  `json:"task,omitempty"`
}

// GetPromptParams are the parameters of a prompts/get invocation.
type GetPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
	Task      *TaskMetadata     `json:"task,omitempty"`
}

// ReadResourceParams are the parameters of a resources/read invocation.
type ReadResourceParams struct {
	URI  string        `json:"uri"`
	Task *TaskMetadata `json:"task,omitempty"`
}

// GetTaskParams are the parameters of tasks/get, tasks/result, tasks/cancel,
// and tasks/delete: a bare task identifier, resolved in the caller's session.
type GetTaskParams struct {
	TaskID string `json:"taskId"`
}

// ListTasksParams are the parameters of tasks/list. Both fields are
// optional; the listing is always scoped to the caller's session.
type ListTasksParams struct {
	// Cursor is the opaque pagination token from a previous page.
	Cursor string `json:"cursor,omitempty"`
	// Limit caps the page size. Zero means the server default.
	Limit int `json:"limit,omitempty"`
}

// ListTasksResult is one page of task summaries.
type ListTasksResult struct {
	Tasks []Task `json:"tasks"`
	// NextCursor is set when more results are available.
	NextCursor string `json:"nextCursor,omitempty"`
}

// NewTaskCreatedNotification builds the mandatory notification announcing
// that a task was accepted for background execution. The task ID rides in
// _meta; params stay empty.
func NewTaskCreatedNotification(taskID string) *JSONRPCNotification {
	return &JSONRPCNotification{
		JSONRPC: JSONRPCVersion,
		Method:  MethodTaskCreatedNotification,
		Params:  map[string]any{},
		Meta:    NewRelatedTaskMeta(taskID),
	}
}
