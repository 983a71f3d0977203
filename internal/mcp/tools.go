package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Frost26/ShellGateway/internal/executor"
)

// Tool names.
const (
	ToolExecuteCommand      = "execute_command"
	ToolChangeDirectory     = "change_directory"
	ToolGetCurrentDirectory = "get_current_directory"
)

// Tools returns the tool declarations in the order they are listed.
func Tools() []*sdk.Tool {
	return []*sdk.Tool{
		{
			Name:        ToolExecuteCommand,
			Description: "Execute a Linux shell command",
			InputSchema: objectSchema(map[string]string{
				"command":           "The shell command to execute",
				"working_directory": "Working directory for the command (optional)",
			}, "command"),
		},
		{
			Name:        ToolChangeDirectory,
			Description: "Change the current working directory",
			InputSchema: objectSchema(map[string]string{
				"path": "The directory path to change to",
			}, "path"),
		},
		{
			Name:        ToolGetCurrentDirectory,
			Description: "Get the current working directory",
			InputSchema: objectSchema(nil),
		},
	}
}

// isTool reports whether name is a declared tool.
func isTool(name string) bool {
	switch name {
	case ToolExecuteCommand, ToolChangeDirectory, ToolGetCurrentDirectory:
		return true
	}
	return false
}

// objectSchema describes an object of string properties.
func objectSchema(props map[string]string, required ...string) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(props)),
		Required:   required,
	}
	for name, desc := range props {
		schema.Properties[name] = &jsonschema.Schema{Type: "string", Description: desc}
	}
	return schema
}

// callTool dispatches one tool call to exec. Bad arguments and unknown
// tools come back as error results, not protocol errors.
func callTool(ctx context.Context, exec *executor.Executor, name string, args map[string]any) *sdk.CallToolResult {
	switch name {
	case ToolExecuteCommand:
		command, ok, err := stringArg(args, "command")
		if err != nil {
			return textResult("Error: "+err.Error(), true)
		}
		if !ok {
			return textResult("Error: command parameter is required", true)
		}
		dir, _, err := stringArg(args, "working_directory")
		if err != nil {
			return textResult("Error: "+err.Error(), true)
		}
		res := exec.Execute(ctx, executor.Request{Command: command, WorkingDirectory: dir})
		return textResult(res.Output, res.Failed)

	case ToolChangeDirectory:
		path, ok, err := stringArg(args, "path")
		if err != nil {
			return textResult("Error: "+err.Error(), true)
		}
		if !ok {
			return textResult("Error: path parameter is required", true)
		}
		res := exec.ChangeDirectory(path)
		return textResult(res.Output, res.Failed)

	case ToolGetCurrentDirectory:
		res := exec.CurrentDirectory()
		return textResult(res.Output, res.Failed)

	default:
		return textResult("Error: Unknown tool: "+name, true)
	}
}

// stringArg returns args[key]. A missing or null value reports ok=false;
// a value of another type is an error.
func stringArg(args map[string]any, key string) (value string, ok bool, err error) {
	v, present := args[key]
	if !present || v == nil {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", false, fmt.Errorf("%s parameter must be a string", key)
	}
	return s, true, nil
}
