// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-json-experiment/json"
	"gorm.io/gorm"
)

// JobModel is the database row backing one durable execution. Arguments and
// results are stored as JSON so any worker process can pick the job up.
type JobModel struct {
	Key       string `gorm:"primaryKey;size:255"`
	Fn        string `gorm:"size:255;not null"`
	Args      string `gorm:"type:text"`
	State     string `gorm:"size:16;index;not null"`
	Result    string `gorm:"type:text"`
	Error     string `gorm:"type:text"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table used for durable executions.
func (JobModel) TableName() string {
	return "task_executions"
}

// DurableExecutorConfig holds configuration for DurableExecutor.
type DurableExecutorConfig struct {
	DB *gorm.DB
	// Workers is the number of polling workers. Defaults to 4.
	Workers int
	// PollInterval is the idle polling cadence. Defaults to 250ms.
	PollInterval time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DurableExecutor runs work off a database-backed queue. Multiple processes
// may share the same table: jobs are claimed with a compare-and-set state
// transition, so delivery is at-least-once and a job is finalized by exactly
// one worker.
type DurableExecutor struct {
	db     *gorm.DB
	poll   time.Duration
	logger *slog.Logger

	mu  sync.RWMutex
	fns map[string]WorkFunc

	workers    int
	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
	started    bool
	closed     bool
}

var _ Executor = (*DurableExecutor)(nil)

// NewDurableExecutor creates a durable executor over the given database.
func NewDurableExecutor(config DurableExecutorConfig) (*DurableExecutor, error) {
	if config.DB == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 250 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &DurableExecutor{
		db:         config.DB,
		poll:       config.PollInterval,
		logger:     config.Logger,
		fns:        make(map[string]WorkFunc),
		workers:    config.Workers,
		baseCtx:    ctx,
		baseCancel: cancel,
	}, nil
}

// Initialize creates the job table and starts the worker pool.
func (e *DurableExecutor) Initialize(ctx context.Context) error {
	if err := e.db.WithContext(ctx).AutoMigrate(&JobModel{}); err != nil {
		return fmt.Errorf("migrating job table: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}
	e.started = true
	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	return nil
}

// Register makes a named work function available to this process's workers.
func (e *DurableExecutor) Register(name string, fn WorkFunc) error {
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

// Enqueue inserts a queued job row.
func (e *DurableExecutor) Enqueue(ctx context.Context, key, fn string, args map[string]any, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("execution key cannot be empty")
	}

	e.mu.RLock()
	_, known := e.fns[fn]
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownFunction, fn)
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshaling job arguments: %w", err)
	}

	job := &JobModel{
		Key:       key,
		Fn:        fn,
		Args:      string(argsJSON),
		State:     string(StateQueued),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := e.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("enqueuing job %s: %w", key, err)
	}
	return nil
}

// State reports the stored state for the key.
func (e *DurableExecutor) State(ctx context.Context, key string) (State, error) {
	job, err := e.load(ctx, key)
	if err != nil {
		return "", err
	}
	return State(job.State), nil
}

// Result returns the stored output of a terminal job.
func (e *DurableExecutor) Result(ctx context.Context, key string) (any, error) {
	job, err := e.load(ctx, key)
	if err != nil {
		return nil, err
	}
	switch State(job.State) {
	case StateCompleted:
		if job.Result == "" {
			return nil, nil
		}
		var result any
		if err := json.Unmarshal([]byte(job.Result), &result); err != nil {
			return nil, fmt.Errorf("unmarshaling job result %s: %w", key, err)
		}
		return result, nil
	case StateFailed:
		return nil, &WorkError{Message: job.Error}
	case StateCancelled:
		return nil, ErrCancelled
	default:
		return nil, ErrNotTerminal
	}
}

// Cancel marks a non-terminal job cancelled. A worker already running the
// job finalizes through a compare-and-set on the running state, so whichever
// transition lands first wins and the other is dropped.
func (e *DurableExecutor) Cancel(ctx context.Context, key string) error {
	res := e.db.WithContext(ctx).Model(&JobModel{}).
		Where("key = ? AND state IN ?", key, []string{
			string(StateScheduled), string(StateQueued), string(StateRunning),
		}).
		Update("state", string(StateCancelled))
	if res.Error != nil {
		return fmt.Errorf("cancelling job %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either terminal already (no-op) or missing.
		if _, err := e.load(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the worker pool.
func (e *DurableExecutor) Close(ctx context.Context) error {
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

// DeleteExpired removes terminal jobs whose retention has elapsed.
func (e *DurableExecutor) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := e.db.WithContext(ctx).
		Where("expires_at < ? AND state IN ?", now.UTC(), []string{
			string(StateCompleted), string(StateFailed), string(StateCancelled),
		}).
		Delete(&JobModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting expired jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (e *DurableExecutor) load(ctx context.Context, key string) (*JobModel, error) {
	var job JobModel
	err := e.db.WithContext(ctx).Where("key = ?", key).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", key, err)
	}
	if time.Now().UTC().After(job.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &job, nil
}

// worker claims and runs queued jobs until the executor is closed.
func (e *DurableExecutor) worker(id int) {
	defer e.wg.Done()

	for {
		select {
		case <-e.baseCtx.Done():
			return
		default:
		}

		job, ok := e.claim()
		if !ok {
			select {
			case <-e.baseCtx.Done():
				return
			case <-time.After(e.poll):
			}
			continue
		}

		e.execute(job)
	}
}

// claim picks one queued job and transitions it to running. The conditional
// update guarantees only one worker wins the claim.
func (e *DurableExecutor) claim() (*JobModel, bool) {
	var job JobModel
	err := e.db.Where("state = ?", string(StateQueued)).
		Order("created_at").
		First(&job).Error
	if err != nil {
		return nil, false
	}

	res := e.db.Model(&JobModel{}).
		Where("key = ? AND state = ?", job.Key, string(StateQueued)).
		Update("state", string(StateRunning))
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, false
	}
	job.State = string(StateRunning)
	return &job, true
}

// execute runs a claimed job and finalizes it with a compare-and-set so a
// concurrent cancellation is never overwritten.
func (e *DurableExecutor) execute(job *JobModel) {
	e.mu.RLock()
	fn, ok := e.fns[job.Fn]
	e.mu.RUnlock()

	if !ok {
		e.finalize(job.Key, StateFailed, "", fmt.Sprintf("work function not registered: %s", job.Fn))
		return
	}

	var args map[string]any
	if job.Args != "" {
		if err := json.Unmarshal([]byte(job.Args), &args); err != nil {
			e.finalize(job.Key, StateFailed, "", fmt.Sprintf("invalid job arguments: %s", err))
			return
		}
	}

	result, err := fn(e.baseCtx, args)
	if err != nil {
		e.finalize(job.Key, StateFailed, "", err.Error())
		return
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		e.finalize(job.Key, StateFailed, "", fmt.Sprintf("marshaling result: %s", err))
		return
	}
	e.finalize(job.Key, StateCompleted, string(resultJSON), "")
}

func (e *DurableExecutor) finalize(key string, state State, result, errMsg string) {
	res := e.db.Model(&JobModel{}).
		Where("key = ? AND state = ?", key, string(StateRunning)).
		Updates(map[string]any{
			"state":  string(state),
			"result": result,
			"error":  errMsg,
		})
	if res.Error != nil {
		e.logger.Warn("finalizing job failed", "key", key, "error", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		e.logger.Info("dropping late result for cancelled job", "key", key)
	}
}
