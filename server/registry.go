// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/go-mcp/mcptask/server/executor"
)

// TaskMode declares whether a component may, must, or must not run as a
// background task.
type TaskMode string

const (
	// TaskForbidden rejects background execution. A task directive on a
	// forbidden component degrades to synchronous execution.
	TaskForbidden TaskMode = "forbidden"
	// TaskOptional honors the caller's choice. This is the default.
	TaskOptional TaskMode = "optional"
	// TaskRequired refuses synchronous execution.
	TaskRequired TaskMode = "required"
)

// Tool is an invokable tool registered with the server.
type Tool struct {
	Name        string
	Description string
	// InputSchema validates call arguments before execution. Optional.
	InputSchema *jsonschema.Schema
	TaskMode    TaskMode
	Handler     executor.WorkFunc
}

// Prompt is a registered prompt template.
type Prompt struct {
	Name        string
	Description string
	TaskMode    TaskMode
	Handler     executor.WorkFunc
}

// Resource is a registered readable resource.
type Resource struct {
	URI      string
	Name     string
	MimeType string
	TaskMode TaskMode
	Handler  executor.WorkFunc
}

// CompileSchema compiles a raw JSON Schema document for use as a tool's
// input schema.
func CompileSchema(raw []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing input schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("adding input schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compiling input schema: %w", err)
	}
	return schema, nil
}

// Registry holds the server's invokable components and registers their
// handlers as named work functions on the executor, so a backgrounded
// invocation can be re-dispatched by key alone.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]*Tool
	prompts   map[string]*Prompt
	resources map[string]*Resource
	exec      executor.Executor
}

// NewRegistry creates a registry bound to the given executor.
func NewRegistry(exec executor.Executor) *Registry {
	return &Registry{
		tools:     make(map[string]*Tool),
		prompts:   make(map[string]*Prompt),
		resources: make(map[string]*Resource),
		exec:      exec,
	}
}

// toolFnKey names the executor work function for a tool.
func toolFnKey(name string) string { return "tool/" + name }

// promptFnKey names the executor work function for a prompt.
func promptFnKey(name string) string { return "prompt/" + name }

// resourceFnKey names the executor work function for a resource.
func resourceFnKey(uri string) string { return "resource/" + uri }

// RegisterTool adds a tool and registers its handler with the executor.
func (r *Registry) RegisterTool(tool *Tool) error {
	if tool == nil || tool.Name == "" {
		return fmt.Errorf("tool must have a name")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s must have a handler", tool.Name)
	}
	if tool.TaskMode == "" {
		tool.TaskMode = TaskOptional
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool already registered: %s", tool.Name)
	}
	if err := r.exec.Register(toolFnKey(tool.Name), tool.Handler); err != nil {
		return err
	}
	r.tools[tool.Name] = tool
	return nil
}

// RegisterPrompt adds a prompt and registers its handler with the executor.
func (r *Registry) RegisterPrompt(prompt *Prompt) error {
	if prompt == nil || prompt.Name == "" {
		return fmt.Errorf("prompt must have a name")
	}
	if prompt.Handler == nil {
		return fmt.Errorf("prompt %s must have a handler", prompt.Name)
	}
	if prompt.TaskMode == "" {
		prompt.TaskMode = TaskOptional
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.prompts[prompt.Name]; exists {
		return fmt.Errorf("prompt already registered: %s", prompt.Name)
	}
	if err := r.exec.Register(promptFnKey(prompt.Name), prompt.Handler); err != nil {
		return err
	}
	r.prompts[prompt.Name] = prompt
	return nil
}

// RegisterResource adds a resource and registers its handler with the
// executor.
func (r *Registry) RegisterResource(resource *Resource) error {
	if resource == nil || resource.URI == "" {
		return fmt.Errorf("resource must have a URI")
	}
	if resource.Handler == nil {
		return fmt.Errorf("resource %s must have a handler", resource.URI)
	}
	if resource.TaskMode == "" {
		resource.TaskMode = TaskOptional
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[resource.URI]; exists {
		return fmt.Errorf("resource already registered: %s", resource.URI)
	}
	if err := r.exec.Register(resourceFnKey(resource.URI), resource.Handler); err != nil {
		return err
	}
	r.resources[resource.URI] = resource
	return nil
}

// Tool looks up a tool by name.
func (r *Registry) Tool(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Prompt looks up a prompt by name.
func (r *Registry) Prompt(name string) (*Prompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prompt, ok := r.prompts[name]
	return prompt, ok
}

// Resource looks up a resource by URI.
func (r *Registry) Resource(uri string) (*Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resource, ok := r.resources[uri]
	return resource, ok
}

// ValidateToolArgs checks call arguments against the tool's input schema.
// Tools without a schema accept any arguments.
func (r *Registry) ValidateToolArgs(tool *Tool, args map[string]any) error {
	if tool.InputSchema == nil {
		return nil
	}
	instance := make(map[string]any, len(args))
	for k, v := range args {
		instance[k] = v
	}
	if err := tool.InputSchema.Validate(instance); err != nil {
		return fmt.Errorf("invalid arguments for tool %s: %w", tool.Name, err)
	}
	return nil
}
