// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package mcptask

// Content block types.
const (
	ContentTypeText = "text"
)

// ContentBlock is one element of a result's primary content channel.
type ContentBlock struct {
	// Type identifies the block variant. Only "text" is produced by this
	// package.
	Type string `json:"type"`
	// Text is the block payload when Type is "text".
	Text string `json:"text,omitempty"`
}

// NewTextContent creates a text content block.
func NewTextContent(text string) ContentBlock {
	return ContentBlock{Type: ContentTypeText, Text: text}
}

// CallToolResult is the result envelope for tools/call. A backgrounded
// invocation returns it as a stub with empty content and task metadata in
// Meta; tasks/result returns it fully populated.
type CallToolResult struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent map[string]any `json:"structuredContent,omitempty"`
	// IsError flags a task-level failure. The response itself is a normal
	// protocol result, so failure handling is uniform whether or not the
	// original call was backgrounded.
	IsError bool `json:"isError,omitempty"`
	Meta    Meta `json:"_meta,omitempty"`
}

// Prompt message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PromptMessage is one message of a rendered prompt.
type PromptMessage struct {
	Role    string       `json:"role"`
	Content ContentBlock `json:"content"`
}

// GetPromptResult is the result envelope for prompts/get.
type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
	Meta        Meta            `json:"_meta,omitempty"`
}

// ResourceContents is one piece of a read resource. Exactly one of Text and
// Blob is set.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	// Blob is base64-encoded binary content.
	Blob string `json:"blob,omitempty"`
}

// ReadResourceResult is the result envelope for resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
	Meta     Meta               `json:"_meta,omitempty"`
}

// EmptyResult is the confirmation shape for operations that return no
// payload, such as tasks/delete.
type EmptyResult struct {
	Meta Meta `json:"_meta,omitempty"`
}
