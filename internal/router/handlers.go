package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const defaultFindLimit = 10

// handleListTools handles the list_tools router tool.
func (s *Server) handleListTools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	allTools := s.registry.ListAllTools(ctx)

	// Format tools as JSON for structured output
	type ToolInfo struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}

	listing := make(map[string][]ToolInfo, len(allTools))
	for id, tools := range allTools {
		infos := make([]ToolInfo, len(tools))
		for i, tool := range tools {
			infos[i] = ToolInfo{
				Name:        tool.Name,
				Description: tool.Description,
			}
		}
		listing[id] = infos
	}

	jsonData, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format tools: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleFindTool handles the find_tool router tool.
func (s *Server) handleFindTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := defaultFindLimit
	if raw, ok := request.GetArguments()["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}

	candidates := Rank(query, s.registry.ListAllTools(ctx), s.registry.Definitions(), limit)
	if len(candidates) == 0 {
		return mcp.NewToolResultText("No matching tools found"), nil
	}

	jsonData, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format candidates: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleCallTool handles the call_tool router tool.
func (s *Server) handleCallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	upstream, err := request.RequireString("upstream")
	if err != nil {
		return mcp.NewToolResultError("upstream parameter is required"), nil
	}

	tool, err := request.RequireString("tool")
	if err != nil {
		return mcp.NewToolResultError("tool parameter is required"), nil
	}

	args := make(map[string]interface{})
	if argsRaw := request.GetArguments()["arguments"]; argsRaw != nil {
		argsMap, ok := argsRaw.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("arguments must be a JSON object"), nil
		}
		args = argsMap
	}

	result, err := s.registry.CallTool(ctx, upstream, tool, args)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
	}

	return result, nil
}

// handleRefreshTools handles the refresh_tools router tool.
func (s *Server) handleRefreshTools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if upstream, ok := request.GetArguments()["upstream"].(string); ok && upstream != "" {
		if !s.registry.Has(upstream) {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown upstream: %s", upstream)), nil
		}
		s.registry.Invalidate(upstream)
	} else {
		s.registry.InvalidateAll()
	}

	allTools := s.registry.ListAllTools(ctx)
	total := 0
	for _, tools := range allTools {
		total += len(tools)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Refreshed %d tools across %d upstreams", total, len(allTools))), nil
}
