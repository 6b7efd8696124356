// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-json-experiment/json"

	"github.com/go-mcp/mcptask"
	"github.com/go-mcp/mcptask/client"
)

// Interceptor is a middleware function that can observe or modify outgoing
// HTTP requests and their responses.
type Interceptor func(ctx context.Context, req *http.Request, invoker Invoker) (*http.Response, error)

// Invoker is the next handler in an interceptor chain.
type Invoker func(ctx context.Context, req *http.Request) (*http.Response, error)

// chainInterceptors composes interceptors right to left around the final
// invoker.
func chainInterceptors(interceptors []Interceptor, invoker Invoker) Invoker {
	for i := len(interceptors) - 1; i >= 0; i-- {
		interceptor := interceptors[i]
		next := invoker
		invoker = func(ctx context.Context, req *http.Request) (*http.Response, error) {
			return interceptor(ctx, req, next)
		}
	}
	return invoker
}

// HTTPCaller sends JSON-RPC requests over HTTP and remembers the session
// identifier assigned by the server. It implements [client.Caller].
type HTTPCaller struct {
	baseURL      string
	httpClient   *http.Client
	interceptors []Interceptor

	mu        sync.Mutex
	sessionID string
	nextID    atomic.Int64
}

var _ client.Caller = (*HTTPCaller)(nil)

// CallerOption configures an HTTPCaller.
type CallerOption func(*HTTPCaller)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) CallerOption {
	return func(c *HTTPCaller) { c.httpClient = httpClient }
}

// WithInterceptors appends request interceptors.
func WithInterceptors(interceptors ...Interceptor) CallerOption {
	return func(c *HTTPCaller) { c.interceptors = append(c.interceptors, interceptors...) }
}

// NewHTTPCaller creates a caller targeting the given endpoint.
func NewHTTPCaller(baseURL string, opts ...CallerOption) *HTTPCaller {
	c := &HTTPCaller{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the session assigned by the server, if any yet.
func (c *HTTPCaller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Call implements [client.Caller]. Protocol errors come back as
// *mcptask.JSONRPCError values so callers can inspect the code.
func (c *HTTPCaller) Call(ctx context.Context, method string, params, result any) error {
	reqBody := &mcptask.JSONRPCRequest{
		JSONRPCMessage: mcptask.JSONRPCMessage{
			JSONRPC: mcptask.JSONRPCVersion,
			ID:      c.nextID.Add(1),
		},
		Method: method,
		Params: params,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if sessionID := c.SessionID(); sessionID != "" {
		httpReq.Header.Set(SessionHeader, sessionID)
	}

	invoker := func(ctx context.Context, req *http.Request) (*http.Response, error) {
		return c.httpClient.Do(req.WithContext(ctx))
	}
	invoker = chainInterceptors(c.interceptors, invoker)

	resp, err := invoker(ctx, httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if assigned := resp.Header.Get(SessionHeader); assigned != "" {
		c.mu.Lock()
		c.sessionID = assigned
		c.mu.Unlock()
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var rpcResp mcptask.JSONRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result == nil {
		return nil
	}
	return mcptask.DecodeParams(rpcResp.Result, result)
}
