// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-mcp/mcptask"
)

// newTestServer builds an in-memory server with a fast poll hint and a set
// of representative components registered.
func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.PollInterval = Duration(10 * time.Millisecond)
	srv, err := New(append([]Option{WithConfig(cfg)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { srv.Close(context.Background()) })

	reg := srv.Registry()
	if err := reg.RegisterTool(&Tool{
		Name: "echo",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			text, _ := args["text"].(string)
			return "echo: " + text, nil
		},
	}); err != nil {
		t.Fatalf("RegisterTool echo: %v", err)
	}
	if err := reg.RegisterTool(&Tool{
		Name: "boom",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, fmt.Errorf("bad input")
		},
	}); err != nil {
		t.Fatalf("RegisterTool boom: %v", err)
	}
	if err := reg.RegisterTool(&Tool{
		Name: "block",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}); err != nil {
		t.Fatalf("RegisterTool block: %v", err)
	}
	if err := reg.RegisterTool(&Tool{
		Name:     "local-only",
		TaskMode: TaskForbidden,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "ran synchronously", nil
		},
	}); err != nil {
		t.Fatalf("RegisterTool local-only: %v", err)
	}
	if err := reg.RegisterTool(&Tool{
		Name:     "background-only",
		TaskMode: TaskRequired,
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "ran in background", nil
		},
	}); err != nil {
		t.Fatalf("RegisterTool background-only: %v", err)
	}
	if err := reg.RegisterPrompt(&Prompt{
		Name: "greeting",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			name, _ := args["name"].(string)
			return "Hello, " + name, nil
		},
	}); err != nil {
		t.Fatalf("RegisterPrompt: %v", err)
	}
	if err := reg.RegisterResource(&Resource{
		URI: "file:///notes.txt",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return "note contents", nil
		},
	}); err != nil {
		t.Fatalf("RegisterResource: %v", err)
	}
	return srv
}

// spawnTask creates a background tool-call task and returns its ID.
func spawnTask(t *testing.T, srv *Server, sessionID, tool string, ttl int64) string {
	t.Helper()
	result, err := srv.CallTool(context.Background(), sessionID, &mcptask.CallToolParams{
		Name:      tool,
		Arguments: map[string]any{"text": "hi"},
		Task:      &mcptask.TaskMetadata{TTL: ttl},
	})
	if err != nil {
		t.Fatalf("CallTool %s: %v", tool, err)
	}
	stub, ok := result.(*mcptask.CallToolResult)
	if !ok {
		t.Fatalf("CallTool result type %T, want *CallToolResult", result)
	}
	taskID, ok := stub.Meta.TaskID()
	if !ok {
		t.Fatal("stub response missing task metadata")
	}
	return taskID
}

// waitForStatus polls tasks/get until the task reports the wanted status.
func waitForStatus(t *testing.T, srv *Server, sessionID, taskID string, want mcptask.TaskStatus) *mcptask.Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var last *mcptask.Task
	for time.Now().Before(deadline) {
		task, err := srv.GetTask(context.Background(), sessionID, &mcptask.GetTaskParams{TaskID: taskID})
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		if task.Status == want {
			return task
		}
		last = task
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task %s never reached %s (last %+v)", taskID, want, last)
	return nil
}

func TestCallToolSynchronous(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.CallTool(context.Background(), "s1", &mcptask.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"text": "hi"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	toolResult := result.(*mcptask.CallToolResult)
	if toolResult.Meta != nil {
		t.Errorf("synchronous result carries _meta: %v", toolResult.Meta)
	}
	want := []mcptask.ContentBlock{mcptask.NewTextContent("echo: hi")}
	if diff := cmp.Diff(want, toolResult.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestCallToolAsTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	taskID := spawnTask(t, srv, "s1", "echo", 60000)
	task := waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusCompleted)

	if task.Kind != mcptask.TaskKindToolCall {
		t.Errorf("kind = %s, want tool-call", task.Kind)
	}
	if task.TTL != 60000 {
		t.Errorf("reported ttl = %d, want the requested 60000", task.TTL)
	}
	if task.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
	if task.PollInterval <= 0 {
		t.Error("pollInterval hint not set")
	}

	result, err := srv.TaskResult(ctx, "s1", &mcptask.GetTaskParams{TaskID: taskID})
	if err != nil {
		t.Fatalf("TaskResult: %v", err)
	}
	toolResult := result.(*mcptask.CallToolResult)
	if toolResult.IsError {
		t.Error("completed task result flagged as error")
	}
	relatedID, ok := toolResult.Meta.RelatedTaskID()
	if !ok || relatedID != taskID {
		t.Errorf("result related-task = %q, want %q", relatedID, taskID)
	}
	want := []mcptask.ContentBlock{mcptask.NewTextContent("echo: hi")}
	if diff := cmp.Diff(want, toolResult.Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestStubResponseShape(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.CallTool(context.Background(), "s1", &mcptask.CallToolParams{
		Name: "block",
		Task: &mcptask.TaskMetadata{},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	stub := result.(*mcptask.CallToolResult)
	if len(stub.Content) != 0 {
		t.Errorf("stub content = %v, want empty", stub.Content)
	}
	status, ok := stub.Meta.TaskStatus()
	if !ok || status != mcptask.TaskStatusWorking {
		t.Errorf("stub status = %q, want working", status)
	}
}

func TestGetAndCancelCarryNoRelatedMeta(t *testing.T) {
	// tasks/get and tasks/cancel return bare Task values; the related-task
	// meta tag belongs only to tasks/result, tasks/delete, and the created
	// notification. The Task type has no _meta field, so routing through
	// HandleRequest is the meaningful check.
	srv := newTestServer(t)
	taskID := spawnTask(t, srv, "s1", "echo", 0)
	waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusCompleted)

	resp := srv.HandleRequest(context.Background(), "s1", &mcptask.JSONRPCRequest{
		JSONRPCMessage: mcptask.JSONRPCMessage{JSONRPC: mcptask.JSONRPCVersion, ID: 1},
		Method:         mcptask.MethodTasksGet,
		Params:         map[string]any{"taskId": taskID},
	})
	if resp.Error != nil {
		t.Fatalf("tasks/get error: %v", resp.Error)
	}
	if _, ok := resp.Result.(*mcptask.Task); !ok {
		t.Errorf("tasks/get result type %T, want *Task", resp.Result)
	}
}

func TestTaskResultBeforeTerminal(t *testing.T) {
	srv := newTestServer(t)
	taskID := spawnTask(t, srv, "s1", "block", 0)

	_, err := srv.TaskResult(context.Background(), "s1", &mcptask.GetTaskParams{TaskID: taskID})
	var rpcErr *mcptask.JSONRPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("TaskResult error = %v, want *JSONRPCError", err)
	}
	if rpcErr.Code != mcptask.TaskNotTerminalErrorCode {
		t.Errorf("error code = %d, want %d", rpcErr.Code, mcptask.TaskNotTerminalErrorCode)
	}
}

func TestFailedTask(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	taskID := spawnTask(t, srv, "s1", "boom", 0)
	task := waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusFailed)
	if task.Error != "bad input" {
		t.Errorf("task error = %q, want %q", task.Error, "bad input")
	}

	result, err := srv.TaskResult(ctx, "s1", &mcptask.GetTaskParams{TaskID: taskID})
	if err != nil {
		t.Fatalf("TaskResult for failed task: %v", err)
	}
	toolResult := result.(*mcptask.CallToolResult)
	if !toolResult.IsError {
		t.Error("failed task result not flagged as error")
	}
	if len(toolResult.Content) != 1 || toolResult.Content[0].Text != "bad input" {
		t.Errorf("failure content = %v, want the failure message", toolResult.Content)
	}
	if _, ok := toolResult.Meta.RelatedTaskID(); !ok {
		t.Error("failed task result missing related-task metadata")
	}
}

func TestCancelReportsActualStatus(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	// Cancelling in-flight work ends it as cancelled.
	blocked := spawnTask(t, srv, "s1", "block", 0)
	task, err := srv.CancelTask(ctx, "s1", &mcptask.GetTaskParams{TaskID: blocked})
	if err != nil {
		t.Fatalf("CancelTask: %v", err)
	}
	if task.Status != mcptask.TaskStatusCancelled {
		t.Errorf("status after cancel = %s, want cancelled", task.Status)
	}

	// Cancelling a finished task reports its real terminal state.
	done := spawnTask(t, srv, "s1", "echo", 0)
	waitForStatus(t, srv, "s1", done, mcptask.TaskStatusCompleted)
	task, err = srv.CancelTask(ctx, "s1", &mcptask.GetTaskParams{TaskID: done})
	if err != nil {
		t.Fatalf("CancelTask: %v", err)
	}
	if task.Status != mcptask.TaskStatusCompleted {
		t.Errorf("status after late cancel = %s, want completed", task.Status)
	}
}

func TestCancelledTaskHasNoResult(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	taskID := spawnTask(t, srv, "s1", "block", 0)
	if _, err := srv.CancelTask(ctx, "s1", &mcptask.GetTaskParams{TaskID: taskID}); err != nil {
		t.Fatalf("CancelTask: %v", err)
	}
	waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusCancelled)

	_, err := srv.TaskResult(ctx, "s1", &mcptask.GetTaskParams{TaskID: taskID})
	var rpcErr *mcptask.JSONRPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("TaskResult error = %v, want *JSONRPCError", err)
	}
	if rpcErr.Code != mcptask.TaskNotTerminalErrorCode {
		t.Errorf("error code = %d, want %d", rpcErr.Code, mcptask.TaskNotTerminalErrorCode)
	}
	if !strings.Contains(rpcErr.Message, "cancelled") {
		t.Errorf("error message = %q, want it to name the cancellation", rpcErr.Message)
	}
}

func TestSessionIsolation(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	taskID := spawnTask(t, srv, "s1", "echo", 0)
	waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusCompleted)

	// Foreign session lookups are indistinguishable from missing tasks.
	task, err := srv.GetTask(ctx, "s2", &mcptask.GetTaskParams{TaskID: taskID})
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Status != mcptask.TaskStatusUnknown {
		t.Errorf("foreign-session status = %s, want unknown", task.Status)
	}

	_, err = srv.TaskResult(ctx, "s2", &mcptask.GetTaskParams{TaskID: taskID})
	var rpcErr *mcptask.JSONRPCError
	if !errors.As(err, &rpcErr) || rpcErr.Code != mcptask.TaskNotFoundErrorCode {
		t.Errorf("foreign-session TaskResult error = %v, want code %d", err, mcptask.TaskNotFoundErrorCode)
	}

	page, err := srv.ListTasks(ctx, "s2", &mcptask.ListTasksParams{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(page.Tasks) != 0 {
		t.Errorf("foreign-session list has %d tasks, want 0", len(page.Tasks))
	}
}

func TestUnknownTaskLookupIsNotAnError(t *testing.T) {
	srv := newTestServer(t)

	task, err := srv.GetTask(context.Background(), "s1", &mcptask.GetTaskParams{TaskID: "nonexistent"})
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Status != mcptask.TaskStatusUnknown {
		t.Errorf("status = %s, want unknown", task.Status)
	}
	if task.TaskID != "nonexistent" {
		t.Errorf("taskId = %s, want nonexistent", task.TaskID)
	}
}

func TestCancelUnknownTask(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	// Cancelling a task the session never had resolves to unknown, like
	// tasks/get, rather than erroring.
	task, err := srv.CancelTask(ctx, "s1", &mcptask.GetTaskParams{TaskID: "nonexistent"})
	if err != nil {
		t.Fatalf("CancelTask: %v", err)
	}
	if task.Status != mcptask.TaskStatusUnknown {
		t.Errorf("status = %s, want unknown", task.Status)
	}
	if task.TaskID != "nonexistent" {
		t.Errorf("taskId = %s, want nonexistent", task.TaskID)
	}

	// A foreign session's task is indistinguishable from a missing one.
	taskID := spawnTask(t, srv, "s1", "block", 0)
	task, err = srv.CancelTask(ctx, "s2", &mcptask.GetTaskParams{TaskID: taskID})
	if err != nil {
		t.Fatalf("CancelTask foreign session: %v", err)
	}
	if task.Status != mcptask.TaskStatusUnknown {
		t.Errorf("foreign-session status = %s, want unknown", task.Status)
	}

	// The owning session's task is untouched by the foreign cancel.
	owned, err := srv.GetTask(ctx, "s1", &mcptask.GetTaskParams{TaskID: taskID})
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if owned.Status != mcptask.TaskStatusWorking {
		t.Errorf("owning-session status = %s, want working", owned.Status)
	}
}

func TestForbiddenDegradesToSynchronous(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.CallTool(ctx, "s1", &mcptask.CallToolParams{
		Name: "local-only",
		Task: &mcptask.TaskMetadata{TTL: 60000},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	toolResult := result.(*mcptask.CallToolResult)
	if toolResult.Meta != nil {
		t.Errorf("degraded result carries _meta: %v", toolResult.Meta)
	}
	if len(toolResult.Content) != 1 || toolResult.Content[0].Text != "ran synchronously" {
		t.Errorf("content = %v, want the synchronous result", toolResult.Content)
	}

	// No task was created anywhere in the session.
	page, err := srv.ListTasks(ctx, "s1", &mcptask.ListTasksParams{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(page.Tasks) != 0 {
		t.Errorf("list has %d tasks after degraded call, want 0", len(page.Tasks))
	}
}

func TestRequiredWithoutDirective(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CallTool(context.Background(), "s1", &mcptask.CallToolParams{
		Name: "background-only",
	})
	var rpcErr *mcptask.JSONRPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("CallTool error = %v, want *JSONRPCError", err)
	}
	if rpcErr.Code != mcptask.TaskRequiredErrorCode {
		t.Errorf("error code = %d, want %d", rpcErr.Code, mcptask.TaskRequiredErrorCode)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	taskID := spawnTask(t, srv, "s1", "echo", 0)
	waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusCompleted)

	for i := 0; i < 2; i++ {
		result, err := srv.DeleteTask(ctx, "s1", &mcptask.GetTaskParams{TaskID: taskID})
		if err != nil {
			t.Fatalf("DeleteTask #%d: %v", i+1, err)
		}
		relatedID, ok := result.Meta.RelatedTaskID()
		if !ok || relatedID != taskID {
			t.Errorf("delete confirmation related-task = %q, want %q", relatedID, taskID)
		}
	}

	task, err := srv.GetTask(ctx, "s1", &mcptask.GetTaskParams{TaskID: taskID})
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Status != mcptask.TaskStatusUnknown {
		t.Errorf("status after delete = %s, want unknown", task.Status)
	}
}

// resolvingNotifier resolves the task from inside the notification callback,
// checking that the task is already visible when the client learns about it.
type resolvingNotifier struct {
	mu       sync.Mutex
	srv      *Server
	statuses []mcptask.TaskStatus
}

func (n *resolvingNotifier) TaskCreated(ctx context.Context, sessionID, taskID string) error {
	task, err := n.srv.GetTask(ctx, sessionID, &mcptask.GetTaskParams{TaskID: taskID})
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.statuses = append(n.statuses, task.Status)
	n.mu.Unlock()
	return nil
}

func TestNotificationPrecedesExecution(t *testing.T) {
	notifier := &resolvingNotifier{}
	srv := newTestServer(t, WithNotifier(notifier))
	notifier.srv = srv

	taskID := spawnTask(t, srv, "s1", "echo", 0)
	waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusCompleted)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.statuses) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.statuses))
	}
	// The notification fires before the work is enqueued, so the task must
	// already resolve as working at that point.
	if notifier.statuses[0] != mcptask.TaskStatusWorking {
		t.Errorf("status at notification time = %s, want working", notifier.statuses[0])
	}
}

func TestListPagination(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	var created []string
	for i := 0; i < 3; i++ {
		taskID := spawnTask(t, srv, "s1", "echo", 0)
		created = append(created, taskID)
		waitForStatus(t, srv, "s1", taskID, mcptask.TaskStatusCompleted)
	}

	page1, err := srv.ListTasks(ctx, "s1", &mcptask.ListTasksParams{Limit: 2})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(page1.Tasks) != 2 {
		t.Fatalf("page 1 has %d tasks, want 2", len(page1.Tasks))
	}
	if page1.NextCursor == "" {
		t.Fatal("page 1 missing nextCursor")
	}

	page2, err := srv.ListTasks(ctx, "s1", &mcptask.ListTasksParams{Limit: 2, Cursor: page1.NextCursor})
	if err != nil {
		t.Fatalf("ListTasks page 2: %v", err)
	}
	if len(page2.Tasks) != 1 {
		t.Fatalf("page 2 has %d tasks, want 1", len(page2.Tasks))
	}
	if page2.NextCursor != "" {
		t.Errorf("page 2 nextCursor = %q, want empty", page2.NextCursor)
	}

	var listed []string
	for _, task := range append(page1.Tasks, page2.Tasks...) {
		listed = append(listed, task.TaskID)
	}
	if diff := cmp.Diff(created, listed); diff != "" {
		t.Errorf("listing order mismatch (-created +listed):\n%s", diff)
	}
}

func TestPromptAndResourceTasks(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.GetPrompt(ctx, "s1", &mcptask.GetPromptParams{
		Name:      "greeting",
		Arguments: map[string]string{"name": "Ada"},
		Task:      &mcptask.TaskMetadata{},
	})
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	promptStub := result.(*mcptask.GetPromptResult)
	promptTaskID, ok := promptStub.Meta.TaskID()
	if !ok {
		t.Fatal("prompt stub missing task metadata")
	}
	waitForStatus(t, srv, "s1", promptTaskID, mcptask.TaskStatusCompleted)

	raw, err := srv.TaskResult(ctx, "s1", &mcptask.GetTaskParams{TaskID: promptTaskID})
	if err != nil {
		t.Fatalf("TaskResult: %v", err)
	}
	promptResult := raw.(*mcptask.GetPromptResult)
	if len(promptResult.Messages) != 1 || promptResult.Messages[0].Content.Text != "Hello, Ada" {
		t.Errorf("prompt messages = %v, want the rendered greeting", promptResult.Messages)
	}

	result, err = srv.ReadResource(ctx, "s1", &mcptask.ReadResourceParams{
		URI:  "file:///notes.txt",
		Task: &mcptask.TaskMetadata{},
	})
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	resourceStub := result.(*mcptask.ReadResourceResult)
	resourceTaskID, ok := resourceStub.Meta.TaskID()
	if !ok {
		t.Fatal("resource stub missing task metadata")
	}
	waitForStatus(t, srv, "s1", resourceTaskID, mcptask.TaskStatusCompleted)

	raw, err = srv.TaskResult(ctx, "s1", &mcptask.GetTaskParams{TaskID: resourceTaskID})
	if err != nil {
		t.Fatalf("TaskResult: %v", err)
	}
	resourceResult := raw.(*mcptask.ReadResourceResult)
	if len(resourceResult.Contents) != 1 || resourceResult.Contents[0].Text != "note contents" {
		t.Errorf("resource contents = %v, want the read text", resourceResult.Contents)
	}
	if resourceResult.Contents[0].URI != "file:///notes.txt" {
		t.Errorf("resource URI = %q, want the requested URI", resourceResult.Contents[0].URI)
	}
}

func TestHandleRequestRouting(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	resp := srv.HandleRequest(ctx, "s1", &mcptask.JSONRPCRequest{
		JSONRPCMessage: mcptask.JSONRPCMessage{JSONRPC: mcptask.JSONRPCVersion, ID: 1},
		Method:         "tasks/unsupported",
	})
	if resp.Error == nil || resp.Error.Code != mcptask.MethodNotFoundErrorCode {
		t.Errorf("unknown method error = %v, want code %d", resp.Error, mcptask.MethodNotFoundErrorCode)
	}

	resp = srv.HandleRequest(ctx, "s1", &mcptask.JSONRPCRequest{
		JSONRPCMessage: mcptask.JSONRPCMessage{JSONRPC: mcptask.JSONRPCVersion, ID: 2},
		Method:         mcptask.MethodTasksGet,
		Params:         map[string]any{},
	})
	if resp.Error == nil || resp.Error.Code != mcptask.InvalidParamsErrorCode {
		t.Errorf("missing taskId error = %v, want code %d", resp.Error, mcptask.InvalidParamsErrorCode)
	}

	resp = srv.HandleRequest(ctx, "s1", &mcptask.JSONRPCRequest{
		JSONRPCMessage: mcptask.JSONRPCMessage{JSONRPC: "1.0", ID: 3},
		Method:         mcptask.MethodTasksList,
	})
	if resp.Error == nil || resp.Error.Code != mcptask.InvalidRequestErrorCode {
		t.Errorf("bad version error = %v, want code %d", resp.Error, mcptask.InvalidRequestErrorCode)
	}
}

func TestCapabilities(t *testing.T) {
	srv := newTestServer(t)

	caps := srv.Capabilities()
	if !caps.List || !caps.Cancel {
		t.Error("list and cancel capabilities not advertised")
	}
	for _, method := range []string{mcptask.MethodToolsCall, mcptask.MethodPromptsGet, mcptask.MethodResourcesRead} {
		if !caps.Supports(method) {
			t.Errorf("capability for %s not advertised", method)
		}
	}
}
