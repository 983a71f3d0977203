// Package mcp exposes the executor as three Model Context Protocol tools,
// served over stdio or a Unix socket.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Frost26/ShellGateway/internal/clog"
	"github.com/Frost26/ShellGateway/internal/executor"
	"github.com/Frost26/ShellGateway/internal/version"
)

// newServer builds a protocol server whose tools all act on exec.
func newServer(exec *executor.Executor) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: version.Name, Version: version.Version}, nil)
	for _, tool := range Tools() {
		server.AddTool(tool, toolHandler(exec))
	}
	server.AddReceivingMiddleware(logRequests, unknownTools)
	return server
}

// toolHandler adapts callTool to the SDK handler signature. A panic in the
// executor becomes an error result.
func toolHandler(exec *executor.Executor) sdk.ToolHandler {
	return func(ctx context.Context, req *sdk.CallToolRequest) (result *sdk.CallToolResult, err error) {
		name := req.Params.Name
		defer func() {
			if r := recover(); r != nil {
				clog.Error("mcp: tool %s panicked: %v", name, r)
				result = textResult(fmt.Sprintf("Error: %v", r), true)
			}
		}()

		args, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return textResult("Error: "+err.Error(), true), nil
		}
		return callTool(ctx, exec, name, args), nil
	}
}

// unknownTools answers calls to undeclared tools with an error result
// instead of a protocol error.
func unknownTools(next sdk.MethodHandler) sdk.MethodHandler {
	return func(ctx context.Context, method string, req sdk.Request) (sdk.Result, error) {
		if call, ok := req.(*sdk.CallToolRequest); ok && !isTool(call.Params.Name) {
			clog.Warn("mcp: call to unknown tool %q", call.Params.Name)
			return textResult("Error: Unknown tool: "+call.Params.Name, true), nil
		}
		return next(ctx, method, req)
	}
}

func logRequests(next sdk.MethodHandler) sdk.MethodHandler {
	return func(ctx context.Context, method string, req sdk.Request) (sdk.Result, error) {
		clog.Debug("mcp: %s", method)
		result, err := next(ctx, method, req)
		if err != nil {
			clog.Debug("mcp: %s failed: %v", method, err)
		}
		return result, err
	}
}

// decodeArguments turns tool arguments into a map. Absent or null
// arguments give an empty map.
func decodeArguments(raw any) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	args := map[string]any{}
	if string(data) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, errors.New("arguments must be an object")
	}
	return args, nil
}

func textResult(text string, isError bool) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: text}},
		IsError: isError,
	}
}
