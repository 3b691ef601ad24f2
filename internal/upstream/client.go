// Package upstream implements the MCP client used by the router to talk to
// one upstream server, with one construction path per transport kind.
package upstream

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mcprouter/internal/config"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

const protocolVersion = "2024-11-05"

// Client talks to a single upstream MCP server over the transport named in
// its definition.
type Client struct {
	def config.UpstreamDefinition

	mu        sync.RWMutex
	mcpClient client.MCPClient
	connected bool
}

// NewClient creates a client for the upstream definition. The connection is
// not established until Connect is called.
func NewClient(def config.UpstreamDefinition) (*Client, error) {
	switch def.Transport {
	case config.TransportStdio:
		if len(def.Command) == 0 {
			return nil, fmt.Errorf("upstream %s: stdio transport requires a command", def.Name)
		}
	case config.TransportSSE, config.TransportStreamableHTTP:
		if def.URL == "" {
			return nil, fmt.Errorf("upstream %s: %s transport requires a url", def.Name, def.Transport)
		}
	default:
		return nil, fmt.Errorf("upstream %s: unknown transport %q", def.Name, def.Transport)
	}

	return &Client{def: def}, nil
}

// Connect establishes the transport connection and performs the MCP protocol
// handshake. Calling Connect on an already connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	mcpClient, err := c.createTransportClient(ctx)
	if err != nil {
		return err
	}

	if err := initialize(ctx, mcpClient); err != nil {
		mcpClient.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}

	c.mcpClient = mcpClient
	c.connected = true
	return nil
}

// createTransportClient builds and starts the mcp-go client matching the
// definition's transport kind.
func (c *Client) createTransportClient(ctx context.Context) (client.MCPClient, error) {
	switch c.def.Transport {
	case config.TransportStdio:
		// The stdio client spawns the command and starts the transport itself.
		stdioClient, err := client.NewStdioMCPClient(c.def.Command[0], envSlice(c.def.Env), c.def.Command[1:]...)
		if err != nil {
			return nil, fmt.Errorf("failed to create stdio client: %w", err)
		}
		return stdioClient, nil

	case config.TransportSSE:
		sseClient, err := client.NewSSEMCPClient(c.def.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE client: %w", err)
		}
		if err := sseClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start SSE client: %w", err)
		}
		return sseClient, nil

	case config.TransportStreamableHTTP:
		httpClient, err := client.NewStreamableHttpClient(c.def.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
		}
		if err := httpClient.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start streamable-http client: %w", err)
		}
		return httpClient, nil

	default:
		return nil, fmt.Errorf("unknown transport %q", c.def.Transport)
	}
}

// initialize performs the MCP protocol handshake
func initialize(ctx context.Context, mcpClient client.MCPClient) error {
	req := mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: protocolVersion,
			ClientInfo: mcp.Implementation{
				Name:    "mcprouter",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	_, err := mcpClient.Initialize(ctx, req)
	return err
}

// ListTools returns all tools advertised by the upstream.
func (c *Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	c.mu.RLock()
	mcpClient := c.mcpClient
	c.mu.RUnlock()

	if mcpClient == nil {
		return nil, fmt.Errorf("upstream %s: not connected", c.def.Name)
	}

	result, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool executes a tool on the upstream and returns the result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	c.mu.RLock()
	mcpClient := c.mcpClient
	c.mu.RUnlock()

	if mcpClient == nil {
		return nil, fmt.Errorf("upstream %s: not connected", c.def.Name)
	}

	req := mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      name,
			Arguments: args,
		},
	}

	return mcpClient.CallTool(ctx, req)
}

// Close shuts down the client connection, best-effort.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mcpClient == nil {
		return nil
	}

	err := c.mcpClient.Close()
	c.mcpClient = nil
	c.connected = false
	return err
}

// Connected reports whether the client holds a live connection.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// envSlice renders an environment map as KEY=VALUE pairs in a stable order.
func envSlice(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return out
}
