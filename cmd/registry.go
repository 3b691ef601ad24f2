package cmd

import (
	"fmt"

	"mcprouter/internal/config"
	"mcprouter/internal/router"
	"mcprouter/internal/upstream"
)

// newUpstreamClient adapts the upstream client constructor to the registry's
// factory signature.
func newUpstreamClient(def config.UpstreamDefinition) (router.ToolClient, error) {
	return upstream.NewClient(def)
}

// buildRegistry loads the configuration and creates a registry over the
// enabled upstreams. Connections are only made when the caller uses it.
func buildRegistry() (*router.Registry, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	registry, err := router.NewRegistry(cfg.Upstreams, cfg.Router.ToolCacheTTL, newUpstreamClient)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build upstream registry: %w", err)
	}

	return registry, &cfg, nil
}
