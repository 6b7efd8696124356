// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package task

import "fmt"

// NotFoundError indicates no live record exists for a session and task pair.
// Expired records and records belonging to other sessions report the same
// error so callers cannot probe for foreign tasks.
type NotFoundError struct {
	SessionID string
	TaskID    string
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(sessionID, taskID string) *NotFoundError {
	return &NotFoundError{SessionID: sessionID, TaskID: taskID}
}

// ValidationError indicates a record failed validation before storage.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid task record: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps a storage backend failure with operation context.
type StoreError struct {
	Operation string
	TaskID    string
	Err       error
}

// Error returns the error message.
func (e *StoreError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("task store %s failed for %s: %v", e.Operation, e.TaskID, e.Err)
	}
	return fmt.Sprintf("task store %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(operation, taskID string, err error) *StoreError {
	return &StoreError{Operation: operation, TaskID: taskID, Err: err}
}

// validate checks that a record carries the fields every store requires.
func validate(record *Record) error {
	if record == nil {
		return NewValidationError("record", "cannot be nil")
	}
	if record.SessionID == "" {
		return NewValidationError("sessionID", "cannot be empty")
	}
	if record.TaskID == "" {
		return NewValidationError("taskID", "cannot be empty")
	}
	if !record.Kind.Valid() {
		return NewValidationError("kind", fmt.Sprintf("unknown kind %q", record.Kind))
	}
	return nil
}
