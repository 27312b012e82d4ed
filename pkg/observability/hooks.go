// Package observability provides hooks for metrics and tracing.
//
// Libraries call the registered hooks; main decides what backs them. The
// defaults are no-ops, so packages and tests never need a metrics backend.
// [NewPrometheus] provides a backend that implements every hook interface
// and serves the collected series on /metrics.
//
// # Usage
//
// Register hooks at application startup:
//
//	prom := observability.NewPrometheus()
//	prom.Install()
//	router.Handle("/metrics", prom.Handler())
//
// Libraries call hooks to emit events:
//
//	observability.Topology().OnMutation(ctx, "add_node", err)
//	observability.Topology().OnAdvise(ctx, len(findings), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// TopologyHooks receives events from the workspace session.
type TopologyHooks interface {
	// OnMutation records a store command (add_node, add_link, seed, reset).
	OnMutation(ctx context.Context, op string, err error)

	// OnAdvise records one evaluation of the rule battery.
	OnAdvise(ctx context.Context, findings int, duration time.Duration)
}

// Assistant outcomes reported to [AssistantHooks].
const (
	OutcomeOK          = "ok"
	OutcomeCached      = "cached"
	OutcomeStale       = "stale"
	OutcomeUnavailable = "unavailable"
)

// AssistantHooks receives events from the external assistant runner.
type AssistantHooks interface {
	OnAssistStart(ctx context.Context)
	OnAssistComplete(ctx context.Context, outcome string, duration time.Duration)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from outbound HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnServe records a handled request. route is the router pattern, not
	// the raw path.
	OnServe(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopTopologyHooks is a no-op implementation of TopologyHooks.
type NoopTopologyHooks struct{}

func (NoopTopologyHooks) OnMutation(context.Context, string, error)    {}
func (NoopTopologyHooks) OnAdvise(context.Context, int, time.Duration) {}

// NoopAssistantHooks is a no-op implementation of AssistantHooks.
type NoopAssistantHooks struct{}

func (NoopAssistantHooks) OnAssistStart(context.Context)                           {}
func (NoopAssistantHooks) OnAssistComplete(context.Context, string, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnServe(context.Context, string, string, int, time.Duration) {}

var (
	topologyHooks  TopologyHooks  = NoopTopologyHooks{}
	assistantHooks AssistantHooks = NoopAssistantHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	serverHooks    ServerHooks    = NoopServerHooks{}
	hooksMu        sync.RWMutex
)

// SetTopologyHooks registers topology hooks. Nil is ignored.
func SetTopologyHooks(h TopologyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		topologyHooks = h
	}
}

// SetAssistantHooks registers assistant hooks. Nil is ignored.
func SetAssistantHooks(h AssistantHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		assistantHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers outbound HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetServerHooks registers HTTP API hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Topology returns the registered topology hooks.
func Topology() TopologyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return topologyHooks
}

// Assistant returns the registered assistant hooks.
func Assistant() AssistantHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return assistantHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered outbound HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Server returns the registered HTTP API hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	topologyHooks = NoopTopologyHooks{}
	assistantHooks = NoopAssistantHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
	serverHooks = NoopServerHooks{}
}
