// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the server side of the task protocol: creating
// background tasks from tool, prompt, and resource invocations, and serving
// the task status, result, listing, cancellation, and deletion methods.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-mcp/mcptask"
	"github.com/go-mcp/mcptask/server/executor"
	"github.com/go-mcp/mcptask/server/task"
)

// Server owns the task subsystem: component registry, metadata store, work
// queue, notifier, and expiry janitor.
type Server struct {
	cfg      Config
	store    task.Store
	exec     executor.Executor
	registry *Registry
	notifier Notifier
	logger   *slog.Logger
	tracer   trace.Tracer
	janitor  *task.Janitor
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithStore sets the task metadata store. Defaults to an in-memory store.
func WithStore(store task.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithExecutor sets the work queue. Defaults to an in-memory executor.
func WithExecutor(exec executor.Executor) Option {
	return func(s *Server) { s.exec = exec }
}

// WithNotifier sets the task-created notification sink. Defaults to a
// no-op notifier.
func WithNotifier(notifier Notifier) Option {
	return func(s *Server) { s.notifier = notifier }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTracer sets the tracer used for per-request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) { s.tracer = tracer }
}

// New creates a Server. Without options it runs fully in memory, which is
// the right shape for tests and single-process deployments.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cfg:      DefaultConfig(),
		notifier: NopNotifier{},
		logger:   slog.Default(),
		tracer:   otel.Tracer("github.com/go-mcp/mcptask/server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if s.store == nil {
		s.store = task.NewInMemoryStore()
	}
	if s.exec == nil {
		s.exec = executor.NewInMemoryExecutor().WithLogger(s.logger)
	}
	s.registry = NewRegistry(s.exec)

	sweepers := []task.Sweeper{s.store}
	if sweeper, ok := s.exec.(task.Sweeper); ok {
		sweepers = append(sweepers, sweeper)
	}
	s.janitor = task.NewJanitor(s.cfg.SweepSchedule, s.logger, sweepers...)

	return s, nil
}

// Registry exposes the component registry for tool, prompt, and resource
// registration.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Capabilities returns the static task capability declaration advertised at
// session setup.
func (s *Server) Capabilities() mcptask.TasksCapability {
	return mcptask.TasksCapability{
		List:   true,
		Cancel: true,
		Requests: mcptask.TaskRequestsCapability{
			ToolsCall:     true,
			PromptsGet:    true,
			ResourcesRead: true,
		},
	}
}

// Start initializes storage and begins the expiry sweep.
func (s *Server) Start(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing task store: %w", err)
	}
	if init, ok := s.exec.(interface{ Initialize(context.Context) error }); ok {
		if err := init.Initialize(ctx); err != nil {
			return fmt.Errorf("initializing executor: %w", err)
		}
	}
	if err := s.janitor.Start(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "task server started",
		"defaultTTL", s.cfg.DefaultTTL.Std(), "pollInterval", s.cfg.PollInterval.Std())
	return nil
}

// Close stops the janitor, the executor, and the store.
func (s *Server) Close(ctx context.Context) error {
	s.janitor.Stop()
	if err := s.exec.Close(ctx); err != nil {
		return fmt.Errorf("closing executor: %w", err)
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing task store: %w", err)
	}
	return nil
}
