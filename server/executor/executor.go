// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

// Package executor abstracts the work queue that runs backgrounded
// invocations. The protocol layer depends only on the Executor interface;
// implementations range from a single-process in-memory runner to a durable
// multi-worker queue.
package executor

import (
	"context"
	"errors"
	"time"
)

// State is the executor's internal view of one unit of work. It is an
// implementation detail of the queue technology: the public task status
// vocabulary stays stable even if the executor is swapped.
type State string

const (
	// StateScheduled means the work has been accepted but not yet queued.
	StateScheduled State = "scheduled"
	// StateQueued means the work is waiting for a worker.
	StateQueued State = "queued"
	// StateRunning means a worker is executing the work.
	StateRunning State = "running"
	// StateCompleted means the work finished and its result is stored.
	StateCompleted State = "completed"
	// StateFailed means the work raised an error.
	StateFailed State = "failed"
	// StateCancelled means the work was cancelled before completing.
	StateCancelled State = "cancelled"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// WorkFunc is a registered unit of work, invoked by a worker with the
// arguments captured at enqueue time.
type WorkFunc func(ctx context.Context, args map[string]any) (any, error)

// Sentinel errors reported by executors.
var (
	// ErrNotFound indicates no execution bookkeeping exists for the key.
	ErrNotFound = errors.New("execution not found")
	// ErrNotTerminal indicates the execution has not finished.
	ErrNotTerminal = errors.New("execution has not reached a terminal state")
	// ErrCancelled indicates the execution was cancelled and holds no result.
	ErrCancelled = errors.New("execution cancelled")
	// ErrUnknownFunction indicates Enqueue referenced an unregistered
	// work function.
	ErrUnknownFunction = errors.New("work function not registered")
	// ErrClosed indicates the executor has been shut down.
	ErrClosed = errors.New("executor closed")
)

// WorkError carries the failure captured from a unit of work. Result returns
// it for failed executions so callers can distinguish a task-level failure
// from an executor fault.
type WorkError struct {
	Message string
}

// Error returns the captured failure message.
func (e *WorkError) Error() string {
	return e.Message
}

// Executor is the narrow interface between the protocol layer and whatever
// queue technology runs the work. Enqueued work is identified by a
// caller-chosen key; results and states stay retrievable for at least the
// TTL passed at enqueue time.
type Executor interface {
	// Register makes a named work function available to workers. All
	// worker processes sharing a durable queue must register the same
	// functions.
	Register(name string, fn WorkFunc) error

	// Enqueue schedules the named function with the given arguments.
	// Bookkeeping for the execution is retained for at least ttl.
	Enqueue(ctx context.Context, key, fn string, args map[string]any, ttl time.Duration) error

	// State reports the current execution state for the key, or
	// ErrNotFound if no bookkeeping exists.
	State(ctx context.Context, key string) (State, error)

	// Result returns the stored output of a terminal execution. It
	// returns ErrNotTerminal while the work is in flight, ErrCancelled
	// for a cancelled execution, and a *WorkError carrying the failure
	// message for a failed one.
	Result(ctx context.Context, key string) (any, error)

	// Cancel requests best-effort cancellation. In-flight work may still
	// complete before the signal is observed; cancelling a terminal
	// execution is a no-op.
	Cancel(ctx context.Context, key string) error

	// Close shuts the executor down and releases its workers.
	Close(ctx context.Context) error
}
