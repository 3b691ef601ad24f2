package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mcprouter/internal/router"
	"mcprouter/pkg/logging"

	"github.com/spf13/cobra"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveHost and servePort override the configured bind address.
var (
	serveHost string
	servePort int
)

// serveCmd starts the router MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP router server",
	Long: `Starts the mcprouter server and exposes the router meta-tools over an SSE
endpoint. Upstream MCP servers are connected lazily on first use, and their
tool lists are cached according to the configured TTL.

Configuration is loaded from .mcprouter/config.yaml in the current directory,
layered over the user configuration in ~/.config/mcprouter/config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	registry, cfg, err := buildRegistry()
	if err != nil {
		return err
	}

	if serveHost != "" {
		cfg.Router.Host = serveHost
	}
	if servePort != 0 {
		cfg.Router.Port = servePort
	}

	srv := router.NewServer(cfg.Router, registry)

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start router server: %w", err)
	}

	fmt.Printf("MCP router listening on %s (%d upstreams)\n", srv.Endpoint(), len(registry.IDs()))

	<-ctx.Done()

	// A fresh context for shutdown, the signal context is already done.
	return srv.Stop(context.Background())
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind the router endpoint to (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port for the router endpoint (overrides config)")
}
