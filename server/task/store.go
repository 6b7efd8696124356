// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides storage for task metadata records. A record ties a
// protocol-visible task to the session that created it and to the execution
// bookkeeping held by the work queue; live status and results are never
// stored here.
package task

import (
	"context"
	"time"

	"github.com/go-mcp/mcptask"
)

// Record is the durable metadata for one task. Status, results, and errors
// live in the executor; the record only carries what is needed to resolve,
// list, and expire tasks within a session.
type Record struct {
	// SessionID scopes the task to the session that created it. Lookups
	// from other sessions must not observe this record.
	SessionID string
	// TaskID is the server-generated opaque identifier.
	TaskID string
	// Kind is the invocation kind the task was created for.
	Kind mcptask.TaskKind
	// Source names the invoked component (tool name, prompt name, or
	// resource URI).
	Source string
	// CreatedAt is the creation timestamp in UTC.
	CreatedAt time.Time
	// TTL is the retention the caller requested. It is reported back on
	// tasks/get; the stored expiry includes an additional buffer.
	TTL time.Duration
	// ExpiresAt is when the record becomes eligible for removal.
	ExpiresAt time.Time
}

// Clone returns a copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// Store persists task metadata records scoped by session. Implementations
// must be safe for concurrent use.
type Store interface {
	// Save persists a record, overwriting any record with the same
	// session and task identifiers.
	Save(ctx context.Context, record *Record) error

	// Get retrieves a record. It returns a *NotFoundError when no live
	// record exists for the session and task pair; expired records are
	// treated as missing.
	Get(ctx context.Context, sessionID, taskID string) (*Record, error)

	// Delete removes a record. Deleting a missing record returns a
	// *NotFoundError.
	Delete(ctx context.Context, sessionID, taskID string) error

	// List returns the session's live records ordered by creation time,
	// skipping offset records and returning at most limit.
	List(ctx context.Context, sessionID string, limit, offset int) ([]*Record, error)

	// Count returns the number of live records for the session.
	Count(ctx context.Context, sessionID string) (int, error)

	// DeleteExpired removes records whose expiry has passed and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Initialize prepares the backing storage.
	Initialize(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
