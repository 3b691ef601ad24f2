package router

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mcprouter/internal/config"
	"mcprouter/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes the registry and ranker as an MCP server of its own. Callers
// see a handful of router meta-tools instead of the upstream tools directly:
// they discover candidates via find_tool and forward calls via call_tool.
type Server struct {
	cfg      config.RouterConfig
	registry *Registry

	server    *server.MCPServer
	sseServer *server.SSEServer

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	mu         sync.RWMutex
}

// NewServer creates a router server around an existing registry.
func NewServer(cfg config.RouterConfig, registry *Registry) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}

	return &Server{
		cfg:      cfg,
		registry: registry,
	}
}

// Start starts the router MCP server on its SSE endpoint.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		return fmt.Errorf("router server already started")
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)

	mcpServer := server.NewMCPServer(
		"mcprouter",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.server = mcpServer

	baseURL := fmt.Sprintf("http://%s:%d", s.cfg.Host, s.cfg.Port)
	s.sseServer = server.NewSSEServer(
		s.server,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)
	sseServer := s.sseServer
	s.mu.Unlock()

	s.registerRouterTools()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	logging.Info("Router", "Starting MCP router server on %s", addr)

	go func() {
		if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
			logging.Error("Router", err, "SSE server error")
		}
	}()

	return nil
}

// Stop stops the router server and closes all upstream connections.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.server == nil {
		s.mu.Unlock()
		return fmt.Errorf("router server not started")
	}

	logging.Info("Router", "Stopping MCP router server")

	cancelFunc := s.cancelFunc
	sseServer := s.sseServer
	s.mu.Unlock()

	if cancelFunc != nil {
		cancelFunc()
	}

	if sseServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Router", err, "Error shutting down SSE server")
		}
	}

	s.registry.CloseAll()

	s.mu.Lock()
	s.server = nil
	s.sseServer = nil
	s.mu.Unlock()

	return nil
}

// Endpoint returns the router's SSE endpoint URL.
func (s *Server) Endpoint() string {
	return fmt.Sprintf("http://%s:%d/sse", s.cfg.Host, s.cfg.Port)
}

// Registry returns the underlying registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// registerRouterTools registers the router meta-tools on the MCP server.
func (s *Server) registerRouterTools() {
	s.server.AddTools(
		server.ServerTool{
			Tool: mcp.NewTool("list_tools",
				mcp.WithDescription("List all tools available across the configured upstream servers, grouped by upstream"),
			),
			Handler: s.handleListTools,
		},
		server.ServerTool{
			Tool: mcp.NewTool("find_tool",
				mcp.WithDescription("Find the tools best matching a free-text request, with scores and match reasons"),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Free-text description of what the tool should do"),
				),
				mcp.WithNumber("limit",
					mcp.Description("Maximum number of candidates to return (default 10)"),
				),
			),
			Handler: s.handleFindTool,
		},
		server.ServerTool{
			Tool: mcp.NewTool("call_tool",
				mcp.WithDescription("Invoke a tool on a specific upstream server"),
				mcp.WithString("upstream",
					mcp.Required(),
					mcp.Description("Upstream server name"),
				),
				mcp.WithString("tool",
					mcp.Required(),
					mcp.Description("Tool name as known by the upstream"),
				),
				mcp.WithObject("arguments",
					mcp.Description("Arguments to pass to the tool"),
				),
			),
			Handler: s.handleCallTool,
		},
		server.ServerTool{
			Tool: mcp.NewTool("refresh_tools",
				mcp.WithDescription("Discard cached tool lists and refetch them from the upstreams"),
				mcp.WithString("upstream",
					mcp.Description("Refresh only this upstream; omit to refresh all"),
				),
			),
			Handler: s.handleRefreshTools,
		},
	)
}
