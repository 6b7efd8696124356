// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is an in-memory implementation of Store. Records are lost
// when the server process stops. All operations are thread-safe using
// sync.RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*Record),
	}
}

func storeKey(sessionID, taskID string) string {
	return sessionID + "/" + taskID
}

// Save persists a record in memory.
func (s *InMemoryStore) Save(ctx context.Context, record *Record) error {
	if err := validate(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[storeKey(record.SessionID, record.TaskID)] = record.Clone()
	return nil
}

// Get retrieves a live record. Expired records are treated as missing.
func (s *InMemoryStore) Get(ctx context.Context, sessionID, taskID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[storeKey(sessionID, taskID)]
	if !ok || time.Now().After(record.ExpiresAt) {
		return nil, NewNotFoundError(sessionID, taskID)
	}
	return record.Clone(), nil
}

// Delete removes a record.
func (s *InMemoryStore) Delete(ctx context.Context, sessionID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(sessionID, taskID)
	if _, ok := s.records[key]; !ok {
		return NewNotFoundError(sessionID, taskID)
	}
	delete(s.records, key)
	return nil
}

// List returns the session's live records ordered by creation time.
func (s *InMemoryStore) List(ctx context.Context, sessionID string, limit, offset int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var matches []*Record
	for _, record := range s.records {
		if record.SessionID == sessionID && now.Before(record.ExpiresAt) {
			matches = append(matches, record)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].TaskID < matches[j].TaskID
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	if offset >= len(matches) {
		return nil, nil
	}
	matches = matches[offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}

	result := make([]*Record, len(matches))
	for i, record := range matches {
		result[i] = record.Clone()
	}
	return result, nil
}

// Count returns the number of live records for the session.
func (s *InMemoryStore) Count(ctx context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, record := range s.records {
		if record.SessionID == sessionID && now.Before(record.ExpiresAt) {
			count++
		}
	}
	return count, nil
}

// DeleteExpired removes records whose expiry has passed.
func (s *InMemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, record := range s.records {
		if now.After(record.ExpiresAt) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}

// Initialize is a no-op for the in-memory store.
func (s *InMemoryStore) Initialize(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}

// Clear removes all records. Useful for tests.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*Record)
}

// Size returns the number of stored records regardless of expiry. Useful
// for tests.
func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
