// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// sweepInterval is how often expired execution bookkeeping is reclaimed.
const sweepInterval = time.Minute

// execution is the in-memory bookkeeping for one unit of work.
type execution struct {
	state     State
	result    any
	workErr   *WorkError
	cancel    context.CancelFunc
	expiresAt time.Time
}

// InMemoryExecutor runs each unit of work on its own goroutine. Execution
// bookkeeping is lost when the process stops, which makes it suitable for
// development and tests; production deployments use a durable queue.
type InMemoryExecutor struct {
	mu    sync.RWMutex
	fns   map[string]WorkFunc
	execs map[string]*execution

	logger *slog.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
}

var _ Executor = (*InMemoryExecutor)(nil)

// NewInMemoryExecutor creates a ready-to-use in-memory executor.
func NewInMemoryExecutor() *InMemoryExecutor {
	ctx, cancel := context.WithCancel(context.Background())
	e := &InMemoryExecutor{
		fns:        make(map[string]WorkFunc),
		execs:      make(map[string]*execution),
		logger:     slog.Default(),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
	e.wg.Add(1)
	go e.sweep()
	return e
}

// WithLogger sets the logger for the executor.
func (e *InMemoryExecutor) WithLogger(logger *slog.Logger) *InMemoryExecutor {
	e.logger = logger
	return e
}

// Register makes a named work function available.
func (e *InMemoryExecutor) Register(name string, fn WorkFunc) error {
	if name == "" {
		return fmt.Errorf("work function name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("work function cannot be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.fns[name]; exists {
		return fmt.Errorf("work function already registered: %s", name)
	}
	e.fns[name] = fn
	return nil
}

// Enqueue schedules the named function on a new goroutine.
func (e *InMemoryExecutor) Enqueue(ctx context.Context, key, fn string, args map[string]any, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("execution key cannot be empty")
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	workFn, ok := e.fns[fn]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownFunction, fn)
	}
	if _, exists := e.execs[key]; exists {
		e.mu.Unlock()
		return fmt.Errorf("execution key already in use: %s", key)
	}

	workCtx, workCancel := context.WithCancel(e.baseCtx)
	exec := &execution{
		state:     StateQueued,
		cancel:    workCancel,
		expiresAt: time.Now().Add(ttl),
	}
	e.execs[key] = exec
	e.wg.Add(1)
	e.mu.Unlock()

	go e.run(workCtx, key, exec, workFn, args)
	return nil
}

// run executes the work and finalizes the execution exactly once. A
// cancellation that landed first wins; the late result is dropped.
func (e *InMemoryExecutor) run(ctx context.Context, key string, exec *execution, fn WorkFunc, args map[string]any) {
	defer e.wg.Done()

	e.mu.Lock()
	if exec.state.Terminal() {
		e.mu.Unlock()
		return
	}
	exec.state = StateRunning
	e.mu.Unlock()

	result, err := fn(ctx, args)

	e.mu.Lock()
	defer e.mu.Unlock()

	if exec.state.Terminal() {
		return
	}
	switch {
	case ctx.Err() != nil:
		exec.state = StateCancelled
	case err != nil:
		exec.state = StateFailed
		exec.workErr = &WorkError{Message: err.Error()}
		e.logger.WarnContext(ctx, "execution failed", "key", key, "error", err)
	default:
		exec.state = StateCompleted
		exec.result = result
	}
}

// State reports the current execution state for the key.
func (e *InMemoryExecutor) State(ctx context.Context, key string) (State, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	exec, ok := e.execs[key]
	if !ok || time.Now().After(exec.expiresAt) {
		return "", ErrNotFound
	}
	return exec.state, nil
}

// Result returns the stored output of a terminal execution.
func (e *InMemoryExecutor) Result(ctx context.Context, key string) (any, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	exec, ok := e.execs[key]
	if !ok || time.Now().After(exec.expiresAt) {
		return nil, ErrNotFound
	}
	switch exec.state {
	case StateCompleted:
		return exec.result, nil
	case StateFailed:
		return nil, exec.workErr
	case StateCancelled:
		return nil, ErrCancelled
	default:
		return nil, ErrNotTerminal
	}
}

// Cancel requests best-effort cancellation. Terminal executions are left
// untouched so a completed task never reports a false cancellation.
func (e *InMemoryExecutor) Cancel(ctx context.Context, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	exec, ok := e.execs[key]
	if !ok || time.Now().After(exec.expiresAt) {
		return ErrNotFound
	}
	if exec.state.Terminal() {
		return nil
	}
	exec.state = StateCancelled
	exec.cancel()
	return nil
}

// Close stops accepting work and waits for in-flight goroutines to finish.
func (e *InMemoryExecutor) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.baseCancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sweep periodically drops bookkeeping whose TTL has elapsed.
func (e *InMemoryExecutor) sweep() {
	defer e.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.baseCtx.Done():
			return
		case now := <-ticker.C:
			e.mu.Lock()
			for key, exec := range e.execs {
				if exec.state.Terminal() && now.After(exec.expiresAt) {
					delete(e.execs, key)
				}
			}
			e.mu.Unlock()
		}
	}
}

// Size returns the number of tracked executions. Useful for tests.
func (e *InMemoryExecutor) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.execs)
}
