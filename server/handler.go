// Copyright 2026 The Go MCP Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"

	"github.com/go-mcp/mcptask"
)

// HandleRequest routes one JSON-RPC request to the matching handler and
// always returns a response, mapping internal failures onto protocol
// errors. The sessionID is established by the transport, never by request
// payload.
func (s *Server) HandleRequest(ctx context.Context, sessionID string, req *mcptask.JSONRPCRequest) *mcptask.JSONRPCResponse {
	if err := req.Validate(); err != nil {
		return mcptask.BuildErrorResponse(req.ID, mcptask.NewInvalidRequestError(err.Error()))
	}

	result, err := s.dispatch(ctx, sessionID, req)
	if err != nil {
		var rpcErr *mcptask.JSONRPCError
		if !errors.As(err, &rpcErr) {
			s.logger.ErrorContext(ctx, "request failed",
				"method", req.Method, "error", err)
			rpcErr = mcptask.NewInternalError("internal error")
		}
		return mcptask.BuildErrorResponse(req.ID, rpcErr)
	}
	return mcptask.BuildSuccessResponse(req.ID, result)
}

func (s *Server) dispatch(ctx context.Context, sessionID string, req *mcptask.JSONRPCRequest) (any, error) {
	switch req.Method {
	case mcptask.MethodToolsCall:
		var params mcptask.CallToolParams
		if err := mcptask.DecodeParams(req.Params, &params); err != nil {
			return nil, mcptask.NewInvalidParamsError(err.Error())
		}
		return s.CallTool(ctx, sessionID, &params)

	case mcptask.MethodPromptsGet:
		var params mcptask.GetPromptParams
		if err := mcptask.DecodeParams(req.Params, &params); err != nil {
			return nil, mcptask.NewInvalidParamsError(err.Error())
		}
		return s.GetPrompt(ctx, sessionID, &params)

	case mcptask.MethodResourcesRead:
		var params mcptask.ReadResourceParams
		if err := mcptask.DecodeParams(req.Params, &params); err != nil {
			return nil, mcptask.NewInvalidParamsError(err.Error())
		}
		return s.ReadResource(ctx, sessionID, &params)

	case mcptask.MethodTasksGet:
		params, err := taskParams(req)
		if err != nil {
			return nil, err
		}
		return s.GetTask(ctx, sessionID, params)

	case mcptask.MethodTasksResult:
		params, err := taskParams(req)
		if err != nil {
			return nil, err
		}
		return s.TaskResult(ctx, sessionID, params)

	case mcptask.MethodTasksList:
		var params mcptask.ListTasksParams
		if err := mcptask.DecodeParams(req.Params, &params); err != nil {
			return nil, mcptask.NewInvalidParamsError(err.Error())
		}
		return s.ListTasks(ctx, sessionID, &params)

	case mcptask.MethodTasksCancel:
		params, err := taskParams(req)
		if err != nil {
			return nil, err
		}
		return s.CancelTask(ctx, sessionID, params)

	case mcptask.MethodTasksDelete:
		params, err := taskParams(req)
		if err != nil {
			return nil, err
		}
		return s.DeleteTask(ctx, sessionID, params)

	default:
		return nil, mcptask.NewMethodNotFoundError(req.Method)
	}
}

// taskParams decodes the taskId-bearing params shared by the task methods.
func taskParams(req *mcptask.JSONRPCRequest) (*mcptask.GetTaskParams, error) {
	var params mcptask.GetTaskParams
	if err := mcptask.DecodeParams(req.Params, &params); err != nil {
		return nil, mcptask.NewInvalidParamsError(err.Error())
	}
	if params.TaskID == "" {
		return nil, mcptask.NewInvalidParamsError("taskId is required")
	}
	return &params, nil
}
