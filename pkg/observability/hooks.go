// Package observability lets the host application watch the layout
// pipeline without this module depending on a metrics backend.
//
// Hooks default to no-ops. A binary registers its own implementations once
// at startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&promPipelineHooks{})
//	    observability.SetCacheHooks(&promCacheHooks{})
//	}
//
// The pipeline runner reports each stage:
//
//	observability.Pipeline().OnNormalizeComplete(ctx, kept, dropped, elapsed)
//
// Engine packages (category, event, layout) never call hooks; only the
// runner and the caches do.
package observability

import (
	"context"
	"sync"
	"time"
)

// ===== Pipeline hooks =====

// PipelineHooks receives stage events from the layout runner.
type PipelineHooks interface {
	// OnLoadComplete fires after one source calendar has been read.
	OnLoadComplete(ctx context.Context, calendarID string, events, warnings int, err error)

	// OnNormalizeComplete fires after all calendars were normalized and
	// classified.
	OnNormalizeComplete(ctx context.Context, kept, dropped int, duration time.Duration)

	OnLayoutStart(ctx context.Context, mode string, events int)
	OnLayoutComplete(ctx context.Context, mode string, bars int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// ===== Cache hooks =====

// CacheHooks receives events from cache operations. keyType is the key's
// prefix, e.g. "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ===== No-op implementations =====

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, error)            {}
func (NoopPipelineHooks) OnNormalizeComplete(context.Context, int, int, time.Duration)       {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// ===== Registry =====

var (
	hooksMu       sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
