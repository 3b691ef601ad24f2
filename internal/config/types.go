package config

import (
	"time"
)

// Config is the top-level configuration structure for mcprouter.
type Config struct {
	Router    RouterConfig         `yaml:"router"`
	Upstreams []UpstreamDefinition `yaml:"upstreams"`
}

const (
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
)

// UpstreamDefinition describes one upstream MCP server the router can reach.
// Definitions are immutable after load.
type UpstreamDefinition struct {
	Name        string   `yaml:"name"`                  // Unique name for this upstream, e.g., "kubernetes", "prometheus-main"
	DisplayName string   `yaml:"displayName,omitempty"` // Optional human-readable name; falls back to Name
	Description string   `yaml:"description,omitempty"` // Optional free-text description, used for ranking
	Tags        []string `yaml:"tags,omitempty"`        // Optional tags, used for ranking
	Transport   string   `yaml:"transport"`             // "stdio", "sse", or "streamable-http"
	Enabled     bool     `yaml:"enabled"`               // Whether this upstream is registered with the router

	// Fields for Transport = "stdio"
	Command []string          `yaml:"command,omitempty"` // Command and its arguments, e.g., ["npx", "mcp-server-kubernetes"]
	Env     map[string]string `yaml:"env,omitempty"`     // Environment variables for the command

	// Field for Transport = "sse" or "streamable-http"
	URL string `yaml:"url,omitempty"` // Endpoint URL, e.g., "http://localhost:8080/sse"
}

// Label returns the display name of the upstream, falling back to its id.
func (d UpstreamDefinition) Label() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

// RouterConfig defines the configuration for the router MCP endpoint.
type RouterConfig struct {
	Host         string        `yaml:"host,omitempty"`         // Host to bind to (default: localhost)
	Port         int           `yaml:"port,omitempty"`         // Port for the router SSE endpoint (default: 8090)
	ToolCacheTTL time.Duration `yaml:"toolCacheTTL,omitempty"` // How long a fetched tool list stays fresh (default: 5m)
}
