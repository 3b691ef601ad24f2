package router

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mcprouter/internal/config"
	"mcprouter/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// Registry manages the configured upstream MCP servers. Clients are created
// and connected lazily, and each upstream's tool list is cached under a TTL.
type Registry struct {
	upstreams map[string]*registeredUpstream
	ttl       time.Duration
	newClient ClientFactory
}

// NewRegistry creates a registry from the full definition set, retaining only
// enabled entries. An empty result is legal. Duplicate enabled names are a
// configuration error.
func NewRegistry(defs []config.UpstreamDefinition, ttl time.Duration, factory ClientFactory) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("client factory is required")
	}

	upstreams := make(map[string]*registeredUpstream)
	for _, def := range defs {
		if !def.Enabled {
			continue
		}
		if _, exists := upstreams[def.Name]; exists {
			return nil, fmt.Errorf("duplicate upstream name %q", def.Name)
		}
		upstreams[def.Name] = &registeredUpstream{def: def}
	}

	return &Registry{
		upstreams: upstreams,
		ttl:       ttl,
		newClient: factory,
	}, nil
}

// IDs returns all registered upstream ids in a stable order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.upstreams))
	for id := range r.upstreams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether the id names a registered upstream. Unknown and
// disabled ids are both false.
func (r *Registry) Has(id string) bool {
	_, exists := r.upstreams[id]
	return exists
}

// Definition returns the definition for a registered upstream.
func (r *Registry) Definition(id string) (config.UpstreamDefinition, error) {
	entry, exists := r.upstreams[id]
	if !exists {
		return config.UpstreamDefinition{}, unknownUpstream(id)
	}
	return entry.def, nil
}

// Definitions returns the definitions of all registered upstreams, keyed by
// upstream id.
func (r *Registry) Definitions() map[string]config.UpstreamDefinition {
	defs := make(map[string]config.UpstreamDefinition, len(r.upstreams))
	for id, entry := range r.upstreams {
		defs[id] = entry.def
	}
	return defs
}

// GetClient returns a connected client for the upstream, creating and
// connecting one on first use. A connect failure leaves no client stored, so
// the upstream stays retryable.
func (r *Registry) GetClient(ctx context.Context, id string) (ToolClient, error) {
	entry, exists := r.upstreams[id]
	if !exists {
		return nil, unknownUpstream(id)
	}

	entry.mu.RLock()
	existing := entry.client
	entry.mu.RUnlock()
	if existing != nil && existing.Connected() {
		return existing, nil
	}

	client, err := r.newClient(entry.def)
	if err != nil {
		return nil, fmt.Errorf("create client for upstream %q: %w", id, err)
	}
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to upstream %q: %w", id, err)
	}

	// Two callers may race the connect; the stored client wins and the
	// redundant connection is closed so the slot never holds two.
	entry.mu.Lock()
	if entry.client != nil && entry.client.Connected() {
		winner := entry.client
		entry.mu.Unlock()
		if err := client.Close(); err != nil {
			logging.Warn("Router", "Error closing redundant client for %s: %v", id, err)
		}
		return winner, nil
	}
	entry.client = client
	entry.mu.Unlock()

	logging.Debug("Router", "Connected to upstream %s", id)
	return client, nil
}

// ListTools returns the upstream's tools, served from the cached snapshot
// while it is fresh. On a cache miss the list is fetched through a connected
// client and a new snapshot is stored. A fetch failure propagates and leaves
// any prior snapshot untouched.
func (r *Registry) ListTools(ctx context.Context, id string) ([]mcp.Tool, error) {
	entry, exists := r.upstreams[id]
	if !exists {
		return nil, unknownUpstream(id)
	}

	entry.mu.RLock()
	snapshot := entry.snapshot
	entry.mu.RUnlock()
	if snapshot != nil && time.Since(snapshot.fetchedAt) < r.ttl {
		return cloneTools(snapshot.tools), nil
	}

	client, err := r.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	tools, err := client.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tools from upstream %q: %w", id, err)
	}

	entry.mu.Lock()
	entry.snapshot = &toolSnapshot{tools: tools, fetchedAt: time.Now()}
	entry.mu.Unlock()

	logging.Debug("Router", "Refreshed %d tools from upstream %s", len(tools), id)
	return cloneTools(tools), nil
}

// cloneTools copies a tool list so callers never alias the cached snapshot.
func cloneTools(tools []mcp.Tool) []mcp.Tool {
	out := make([]mcp.Tool, len(tools))
	copy(out, tools)
	return out
}

// ListAllTools lists tools from every registered upstream concurrently. A
// per-upstream failure is recorded as an empty list and does not fail the
// aggregate; the result covers every registered id.
func (r *Registry) ListAllTools(ctx context.Context) map[string][]mcp.Tool {
	result := make(map[string][]mcp.Tool, len(r.upstreams))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for id := range r.upstreams {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			tools, err := r.ListTools(ctx, id)
			if err != nil {
				logging.Warn("Router", "Failed to list tools from upstream %s: %v", id, err)
				tools = []mcp.Tool{}
			}
			mu.Lock()
			result[id] = tools
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return result
}

// CallTool forwards a tool invocation to the named upstream. The result or
// error of the call is passed through unmodified; there is no retry.
func (r *Registry) CallTool(ctx context.Context, id, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	if _, exists := r.upstreams[id]; !exists {
		return nil, unknownUpstream(id)
	}

	client, err := r.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return client.CallTool(ctx, name, args)
}

// Invalidate discards the cached snapshot for one upstream, regardless of
// age. Unknown ids and absent snapshots are a no-op.
func (r *Registry) Invalidate(id string) {
	entry, exists := r.upstreams[id]
	if !exists {
		return
	}
	entry.mu.Lock()
	entry.snapshot = nil
	entry.mu.Unlock()
}

// InvalidateAll discards every upstream's cached snapshot.
func (r *Registry) InvalidateAll() {
	for id := range r.upstreams {
		r.Invalidate(id)
	}
}

// CloseAll closes every upstream with a live client concurrently and clears
// the client references. Individual close errors are logged, never raised.
// Safe to call repeatedly, even when nothing was connected.
func (r *Registry) CloseAll() {
	var wg sync.WaitGroup
	for id, entry := range r.upstreams {
		entry.mu.Lock()
		client := entry.client
		entry.client = nil
		entry.mu.Unlock()
		if client == nil {
			continue
		}

		wg.Add(1)
		go func(id string, client ToolClient) {
			defer wg.Done()
			if err := client.Close(); err != nil {
				logging.Warn("Router", "Error closing client for upstream %s: %v", id, err)
			}
		}(id, client)
	}
	wg.Wait()
}
