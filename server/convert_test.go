// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-mcp/mcptask"
)

func TestConvertToolResult(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want *mcptask.CallToolResult
	}{
		{
			name: "string becomes text content",
			raw:  "hello",
			want: &mcptask.CallToolResult{
				Content: []mcptask.ContentBlock{mcptask.NewTextContent("hello")},
			},
		},
		{
			name: "typed result passes through",
			raw: &mcptask.CallToolResult{
				Content: []mcptask.ContentBlock{mcptask.NewTextContent("x")},
				IsError: true,
			},
			want: &mcptask.CallToolResult{
				Content: []mcptask.ContentBlock{mcptask.NewTextContent("x")},
				IsError: true,
			},
		},
		{
			name: "content blocks are wrapped",
			raw:  []mcptask.ContentBlock{mcptask.NewTextContent("a"), mcptask.NewTextContent("b")},
			want: &mcptask.CallToolResult{
				Content: []mcptask.ContentBlock{mcptask.NewTextContent("a"), mcptask.NewTextContent("b")},
			},
		},
		{
			name: "round-tripped envelope keeps its shape",
			raw: map[string]any{
				"content": []any{map[string]any{"type": "text", "text": "hi"}},
				"isError": true,
			},
			want: &mcptask.CallToolResult{
				Content: []mcptask.ContentBlock{mcptask.NewTextContent("hi")},
				IsError: true,
			},
		},
		{
			name: "plain map becomes structured content",
			raw:  map[string]any{"temperature": 21.5},
			want: &mcptask.CallToolResult{
				Content:           []mcptask.ContentBlock{mcptask.NewTextContent(`{"temperature":21.5}`)},
				StructuredContent: map[string]any{"temperature": 21.5},
			},
		},
		{
			name: "nil becomes an empty result",
			raw:  nil,
			want: &mcptask.CallToolResult{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertToolResult(tt.raw, "echo")
			if err != nil {
				t.Fatalf("convertToolResult: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertPromptResult(t *testing.T) {
	got, err := convertPromptResult("hello", "greeting")
	if err != nil {
		t.Fatalf("convertPromptResult: %v", err)
	}
	want := &mcptask.GetPromptResult{
		Messages: []mcptask.PromptMessage{{
			Role:    mcptask.RoleUser,
			Content: mcptask.NewTextContent("hello"),
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertResourceResult(t *testing.T) {
	got, err := convertResourceResult("contents", "file:///x")
	if err != nil {
		t.Fatalf("convertResourceResult: %v", err)
	}
	want := &mcptask.ReadResourceResult{
		Contents: []mcptask.ResourceContents{{URI: "file:///x", Text: "contents"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestFailureResult(t *testing.T) {
	got := failureResult("bad input")
	if !got.IsError {
		t.Error("failure result not flagged as error")
	}
	if len(got.Content) != 1 || got.Content[0].Text != "bad input" {
		t.Errorf("failure content = %v, want the message", got.Content)
	}
}
