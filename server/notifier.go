// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-mcp/mcptask"
)

// Notifier delivers the task-created notification to the session's client.
// Delivery happens before the work is enqueued, so a client that reacts to
// the notification can immediately resolve the task.
type Notifier interface {
	TaskCreated(ctx context.Context, sessionID, taskID string) error
}

// NopNotifier drops all notifications. It is the default when no transport
// is attached.
type NopNotifier struct{}

var _ Notifier = (*NopNotifier)(nil)

// TaskCreated does nothing.
func (NopNotifier) TaskCreated(ctx context.Context, sessionID, taskID string) error {
	return nil
}

// ChannelNotifier fans task-created notifications out to per-session
// channels, typically drained by a transport writer. Slow consumers are
// skipped rather than blocking task creation.
type ChannelNotifier struct {
	mu      sync.RWMutex
	subs    map[string]chan *mcptask.JSONRPCNotification
	bufSize int
	logger  *slog.Logger
}

var _ Notifier = (*ChannelNotifier)(nil)

// NewChannelNotifier creates a notifier with the given per-session buffer.
func NewChannelNotifier(bufSize int, logger *slog.Logger) *ChannelNotifier {
	if bufSize <= 0 {
		bufSize = 16
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelNotifier{
		subs:    make(map[string]chan *mcptask.JSONRPCNotification),
		bufSize: bufSize,
		logger:  logger,
	}
}

// Subscribe returns the channel carrying notifications for the session,
// creating it on first use.
func (n *ChannelNotifier) Subscribe(sessionID string) <-chan *mcptask.JSONRPCNotification {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch, ok := n.subs[sessionID]
	if !ok {
		ch = make(chan *mcptask.JSONRPCNotification, n.bufSize)
		n.subs[sessionID] = ch
	}
	return ch
}

// Unsubscribe drops the session's channel.
func (n *ChannelNotifier) Unsubscribe(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ch, ok := n.subs[sessionID]; ok {
		close(ch)
		delete(n.subs, sessionID)
	}
}

// TaskCreated queues the notification on the session's channel. A missing
// subscriber or a full buffer is logged and skipped.
func (n *ChannelNotifier) TaskCreated(ctx context.Context, sessionID, taskID string) error {
	n.mu.RLock()
	ch, ok := n.subs[sessionID]
	n.mu.RUnlock()

	if !ok {
		return nil
	}

	notification := mcptask.NewTaskCreatedNotification(taskID)
	select {
	case ch <- notification:
	default:
		n.logger.WarnContext(ctx, "notification channel full, dropping",
			"sessionID", sessionID, "taskID", taskID)
	}
	return nil
}
