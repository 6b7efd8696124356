// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-mcp/mcptask"
	"github.com/go-mcp/mcptask/server"
)

// ServerHandler serves the task protocol over HTTP. POST requests carry one
// JSON-RPC request each; a GET with Accept: text/event-stream opens the
// notification stream for the caller's session.
type ServerHandler struct {
	server   *server.Server
	notifier *server.ChannelNotifier
	logger   *slog.Logger
}

var _ http.Handler = (*ServerHandler)(nil)

// NewServerHandler wraps a task server and its channel notifier in an HTTP
// handler.
func NewServerHandler(srv *server.Server, notifier *server.ChannelNotifier, logger *slog.Logger) *ServerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServerHandler{
		server:   srv,
		notifier: notifier,
		logger:   logger,
	}
}

// ServeHTTP implements [http.Handler].
func (h *ServerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleRequest(w, r)
	case http.MethodGet:
		if r.Header.Get("Accept") == "text/event-stream" {
			h.handleEvents(w, r)
			return
		}
		http.Error(w, "expected Accept: text/event-stream", http.StatusBadRequest)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// sessionID resolves the caller's session, assigning one on first contact.
// The assigned value is always echoed back so the client can persist it.
func (h *ServerHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = newSessionID()
	}
	w.Header().Set(SessionHeader, id)
	return id
}

func (h *ServerHandler) handleRequest(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	w.Header().Set("Content-Type", "application/json")

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}

	var resp *mcptask.JSONRPCResponse
	req, err := mcptask.DeserializeRequest(data)
	if err != nil {
		resp = mcptask.BuildErrorResponse(nil, mcptask.NewJSONParseError())
	} else {
		resp = h.server.HandleRequest(r.Context(), sessionID, req)
	}

	out, err := mcptask.SerializeResponse(resp)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "serializing response failed", "error", err)
		http.Error(w, "marshal response failed", http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(out); err != nil {
		h.logger.WarnContext(r.Context(), "writing response failed", "error", err)
	}
}

// handleEvents streams the session's task-created notifications as SSE
// events until the client disconnects.
func (h *ServerHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil {
		http.Error(w, "notifications not enabled", http.StatusNotFound)
		return
	}

	sessionID := h.sessionID(w, r)
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	events := h.notifier.Subscribe(sessionID)
	for {
		select {
		case <-r.Context().Done():
			return
		case notification, ok := <-events:
			if !ok {
				return
			}
			data, err := mcptask.SerializeNotification(notification)
			if err != nil {
				h.logger.WarnContext(r.Context(), "serializing notification failed", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
