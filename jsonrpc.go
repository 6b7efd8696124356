// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package mcptask

import "fmt"

// JSONRPCVersion is the protocol version carried on every message.
const JSONRPCVersion = "2.0"

// JSONRPCMessage is the base structure for all JSON-RPC 2.0 messages.
type JSONRPCMessage struct {
	// JSONRPC version, always "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID is a unique identifier for request/response correlation.
	ID any `json:"id,omitempty"` // string, number, or null
}

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPCMessage
	// Method identifies the operation to perform.
	Method string `json:"method"`
	// Params contains parameters for the method.
	Params any `json:"params,omitempty"`
}

// Validate checks the structural invariants of a request.
func (r *JSONRPCRequest) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return fmt.Errorf("invalid jsonrpc version: %q", r.JSONRPC)
	}
	if r.Method == "" {
		return fmt.Errorf("method cannot be empty")
	}
	return nil
}

// JSONRPCNotification represents a JSON-RPC 2.0 notification (no ID, no
// response expected).
type JSONRPCNotification struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
	Meta    Meta           `json:"_meta,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error.
type JSONRPCError struct {
	// Code is the error code.
	Code int `json:"code"`
	// Message is a short description of the error.
	Message string `json:"message"`
	// Data contains optional additional error details.
	Data any `json:"data,omitempty"`
}

// Error implements the error interface so handlers can return protocol
// errors through ordinary error values.
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPCMessage
	// Result contains the successful result data. Mutually exclusive with
	// Error.
	Result any `json:"result,omitempty"`
	// Error contains an error object if the request failed. Mutually
	// exclusive with Result.
	Error *JSONRPCError `json:"error,omitempty"`
}

// Standard JSON-RPC 2.0 error codes.
const (
	// JSONParseErrorCode indicates invalid JSON payload.
	JSONParseErrorCode = -32700
	// InvalidRequestErrorCode indicates request payload validation error.
	InvalidRequestErrorCode = -32600
	// MethodNotFoundErrorCode indicates the method does not exist.
	MethodNotFoundErrorCode = -32601
	// InvalidParamsErrorCode indicates invalid method parameters.
	InvalidParamsErrorCode = -32602
	// InternalErrorCode indicates an internal server error.
	InternalErrorCode = -32603
)

// Task protocol error codes.
const (
	// TaskNotFoundErrorCode indicates tasks/result was called for a task
	// that cannot be resolved in the caller's session.
	TaskNotFoundErrorCode = -32001
	// TaskNotTerminalErrorCode indicates tasks/result was called before the
	// task reached a retrievable terminal state. The call is recoverable:
	// poll tasks/get and retry.
	TaskNotTerminalErrorCode = -32002
	// TaskRequiredErrorCode indicates a component that only runs in the
	// background was invoked without a task directive.
	TaskRequiredErrorCode = -32003
)

// NewJSONParseError creates an error for an unparseable payload.
func NewJSONParseError() *JSONRPCError {
	return &JSONRPCError{Code: JSONParseErrorCode, Message: "Invalid JSON payload"}
}

// NewInvalidRequestError creates an error for a malformed request.
func NewInvalidRequestError(message string) *JSONRPCError {
	if message == "" {
		message = "Request payload validation error"
	}
	return &JSONRPCError{Code: InvalidRequestErrorCode, Message: message}
}

// NewMethodNotFoundError creates an error for an unrecognized method.
func NewMethodNotFoundError(method string) *JSONRPCError {
	return &JSONRPCError{
		Code:    MethodNotFoundErrorCode,
		Message: fmt.Sprintf("Method not found: %s", method),
	}
}

// NewInvalidParamsError creates an error for invalid method parameters.
func NewInvalidParamsError(message string) *JSONRPCError {
	if message == "" {
		message = "Invalid parameters"
	}
	return &JSONRPCError{Code: InvalidParamsErrorCode, Message: message}
}

// NewInternalError creates an error for an internal server failure.
func NewInternalError(message string) *JSONRPCError {
	if message == "" {
		message = "Internal error"
	}
	return &JSONRPCError{Code: InternalErrorCode, Message: message}
}

// NewTaskNotFoundError creates the error tasks/result reports for a task
// that cannot be resolved.
func NewTaskNotFoundError(taskID string) *JSONRPCError {
	return &JSONRPCError{
		Code:    TaskNotFoundErrorCode,
		Message: fmt.Sprintf("Invalid taskId: %s not found", taskID),
	}
}

// NewTaskNotTerminalError creates the error tasks/result reports when the
// task has no retrievable result yet.
func NewTaskNotTerminalError(status TaskStatus) *JSONRPCError {
	return &JSONRPCError{
		Code:    TaskNotTerminalErrorCode,
		Message: fmt.Sprintf("Task result not available (current status: %s)", status),
	}
}

// NewTaskCancelledError creates the error tasks/result reports for a task
// that was cancelled before producing a result. It shares the
// result-not-available code so pollers handle both cases the same way.
func NewTaskCancelledError() *JSONRPCError {
	return &JSONRPCError{
		Code:    TaskNotTerminalErrorCode,
		Message: "Task was cancelled and has no result",
	}
}

// NewTaskRequiredError creates the error reported when a background-only
// component is invoked synchronously.
func NewTaskRequiredError(component string) *JSONRPCError {
	return &JSONRPCError{
		Code:    TaskRequiredErrorCode,
		Message: fmt.Sprintf("%s requires task-augmented execution", component),
	}
}

// BuildSuccessResponse wraps a result in a JSON-RPC response.
func BuildSuccessResponse(id, result any) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: JSONRPCVersion, ID: id},
		Result:         result,
	}
}

// BuildErrorResponse wraps an error in a JSON-RPC response. Errors that are
// not already protocol errors are reported as internal errors.
func BuildErrorResponse(id any, err error) *JSONRPCResponse {
	rpcErr, ok := err.(*JSONRPCError)
	if !ok {
		rpcErr = NewInternalError(err.Error())
	}
	return &JSONRPCResponse{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: JSONRPCVersion, ID: id},
		Error:          rpcErr,
	}
}
