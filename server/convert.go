// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"

	"github.com/go-json-experiment/json"

	"github.com/go-mcp/mcptask"
)

// converter shapes a raw handler result into the typed result for one
// invocation kind. The raw value may be a typed struct (in-memory executor)
// or the generic JSON decoding of one (durable executor), so converters
// accept both.
type converter func(raw any, source string) (any, error)

// converters maps each invocation kind to its result converter.
var converters = map[mcptask.TaskKind]converter{
	mcptask.TaskKindToolCall:     convertToolResult,
	mcptask.TaskKindPromptGet:    convertPromptResult,
	mcptask.TaskKindResourceRead: convertResourceResult,
}

// convertResult shapes a raw handler result for the task's kind.
func convertResult(kind mcptask.TaskKind, raw any, source string) (any, error) {
	convert, ok := converters[kind]
	if !ok {
		return nil, fmt.Errorf("no result converter for kind %s", kind)
	}
	return convert(raw, source)
}

// convertToolResult shapes a raw value into a CallToolResult.
func convertToolResult(raw any, source string) (any, error) {
	switch v := raw.(type) {
	case nil:
		return &mcptask.CallToolResult{}, nil
	case *mcptask.CallToolResult:
		return v, nil
	case mcptask.CallToolResult:
		return &v, nil
	case string:
		return &mcptask.CallToolResult{
			Content: []mcptask.ContentBlock{mcptask.NewTextContent(v)},
		}, nil
	case []mcptask.ContentBlock:
		return &mcptask.CallToolResult{Content: v}, nil
	case map[string]any:
		// A round-tripped CallToolResult keeps its shape; anything else
		// becomes structured content.
		if looksLikeToolResult(v) {
			return reshape[mcptask.CallToolResult](v)
		}
		return &mcptask.CallToolResult{
			Content:           []mcptask.ContentBlock{mcptask.NewTextContent(stringify(v))},
			StructuredContent: v,
		}, nil
	default:
		return &mcptask.CallToolResult{
			Content: []mcptask.ContentBlock{mcptask.NewTextContent(stringify(v))},
		}, nil
	}
}

// convertPromptResult shapes a raw value into a GetPromptResult.
func convertPromptResult(raw any, source string) (any, error) {
	switch v := raw.(type) {
	case nil:
		return &mcptask.GetPromptResult{}, nil
	case *mcptask.GetPromptResult:
		return v, nil
	case mcptask.GetPromptResult:
		return &v, nil
	case string:
		return &mcptask.GetPromptResult{
			Messages: []mcptask.PromptMessage{{
				Role:    mcptask.RoleUser,
				Content: mcptask.NewTextContent(v),
			}},
		}, nil
	case []mcptask.PromptMessage:
		return &mcptask.GetPromptResult{Messages: v}, nil
	case map[string]any:
		return reshape[mcptask.GetPromptResult](v)
	default:
		return &mcptask.GetPromptResult{
			Messages: []mcptask.PromptMessage{{
				Role:    mcptask.RoleUser,
				Content: mcptask.NewTextContent(stringify(v)),
			}},
		}, nil
	}
}

// convertResourceResult shapes a raw value into a ReadResourceResult.
func convertResourceResult(raw any, source string) (any, error) {
	switch v := raw.(type) {
	case nil:
		return &mcptask.ReadResourceResult{}, nil
	case *mcptask.ReadResourceResult:
		return v, nil
	case mcptask.ReadResourceResult:
		return &v, nil
	case string:
		return &mcptask.ReadResourceResult{
			Contents: []mcptask.ResourceContents{{URI: source, Text: v}},
		}, nil
	case []mcptask.ResourceContents:
		return &mcptask.ReadResourceResult{Contents: v}, nil
	case map[string]any:
		return reshape[mcptask.ReadResourceResult](v)
	default:
		return &mcptask.ReadResourceResult{
			Contents: []mcptask.ResourceContents{{URI: source, Text: stringify(v)}},
		}, nil
	}
}

// failureResult builds the error-flagged result returned by tasks/result for
// a failed task. The shape is a tool result envelope regardless of kind, so
// failures surface uniformly.
func failureResult(message string) *mcptask.CallToolResult {
	return &mcptask.CallToolResult{
		Content: []mcptask.ContentBlock{mcptask.NewTextContent(message)},
		IsError: true,
	}
}

// looksLikeToolResult reports whether a generic map carries tool result
// envelope keys.
func looksLikeToolResult(m map[string]any) bool {
	if _, ok := m["content"]; ok {
		return true
	}
	if _, ok := m["isError"]; ok {
		return true
	}
	if _, ok := m["structuredContent"]; ok {
		return true
	}
	return false
}

// reshape re-decodes a generic map into a typed result struct.
func reshape[T any](m map[string]any) (*T, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("reshaping result: %w", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("reshaping result: %w", err)
	}
	return &out, nil
}

// stringify renders an arbitrary handler result as text content.
func stringify(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
