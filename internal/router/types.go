package router

import (
	"context"
	"sync"
	"time"

	"mcprouter/internal/config"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolClient defines the interface for talking to one upstream MCP server.
// This is implemented by the client in the upstream package.
type ToolClient interface {
	// Connect establishes the connection and performs the protocol handshake
	Connect(ctx context.Context) error

	// Close cleanly shuts down the client connection
	Close() error

	// ListTools returns all available tools from the upstream
	ListTools(ctx context.Context) ([]mcp.Tool, error)

	// CallTool executes a specific tool and returns the result
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error)

	// Connected reports whether the client currently holds a live connection
	Connected() bool
}

// ClientFactory builds a ToolClient variant matching the definition's
// transport kind. The registry calls it lazily, on the first operation that
// needs a connection to the upstream.
type ClientFactory func(def config.UpstreamDefinition) (ToolClient, error)

// toolSnapshot is a captured copy of an upstream's tool list. Snapshots are
// replaced wholesale on refresh, never mutated in place.
type toolSnapshot struct {
	tools     []mcp.Tool
	fetchedAt time.Time
}

// registeredUpstream is the per-upstream slot owned by the registry:
// the immutable definition, an optional live client, and an optional cached
// tool snapshot.
type registeredUpstream struct {
	def config.UpstreamDefinition

	mu       sync.RWMutex
	client   ToolClient
	snapshot *toolSnapshot
}

// RankedTool is one scored candidate returned by Rank. Produced fresh per
// ranking call, never cached.
type RankedTool struct {
	UpstreamID   string  `json:"upstream"`
	UpstreamName string  `json:"upstreamName"`
	Tool         string  `json:"tool"`
	Description  string  `json:"description,omitempty"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
}
