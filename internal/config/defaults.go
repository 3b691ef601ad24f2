package config

import "time"

// GetDefaultConfig returns the minimal default configuration for mcprouter.
// By default: no upstreams, router on localhost:8090, tool lists cached for
// five minutes.
func GetDefaultConfig() Config {
	return Config{
		Router: RouterConfig{
			Host:         "localhost",
			Port:         8090,
			ToolCacheTTL: 5 * time.Minute,
		},
		Upstreams: []UpstreamDefinition{},
	}
}
