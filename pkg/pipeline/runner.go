package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yeargrid/pkg/cache"
	"github.com/matzehuels/yeargrid/pkg/config"
	"github.com/matzehuels/yeargrid/pkg/observability"
	"github.com/matzehuels/yeargrid/pkg/render"
	"github.com/matzehuels/yeargrid/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides cache.TTLLayout and cache.TTLArtifact when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, specs []config.Calendar, opts Options) (*Output, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	out := &Output{}

	// Stage 1: Load
	loadStart := time.Now()
	calendars, err := Load(ctx, specs, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	out.Stats.LoadTime = time.Since(loadStart)
	out.Stats.Calendars = len(calendars)
	for _, cal := range calendars {
		out.Stats.RawEvents += len(cal.Events)
		out.Warnings = append(out.Warnings, cal.Warnings...)
	}
	r.Logger.Info("loaded calendars",
		"calendars", out.Stats.Calendars,
		"events", out.Stats.RawEvents,
		"duration", out.Stats.LoadTime)

	// Stages 2 and 3: Normalize and layout
	layoutStart := time.Now()
	doc, stats, layoutHit, err := r.layout(ctx, calendars, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	out.Document = doc
	out.CacheInfo.LayoutHit = layoutHit
	if !layoutHit {
		out.Stats.Events = stats.Events
		out.Stats.Dropped = stats.Dropped
		out.Stats.Bars = stats.Bars
		out.Stats.Days = stats.Days
		out.Stats.NormalizeTime = stats.NormalizeTime
	}
	out.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"year", doc.Year,
		"events", len(doc.Events),
		"bars", len(doc.Bars),
		"cached", layoutHit,
		"duration", out.Stats.LayoutTime)
	dropped := 0
	for _, n := range doc.Dropped {
		dropped += n
	}
	if dropped > 0 {
		r.Logger.Warn("dropped events", "count", dropped, "reasons", doc.Dropped)
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out.Artifacts = artifacts
	out.Stats.RenderTime = time.Since(renderStart)
	out.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", out.Stats.RenderTime)

	return out, nil
}

// GenerateLayoutWithCacheInfo computes the layout document for calendars,
// serving it from cache when the same input and options were seen before.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, calendars []source.Calendar, opts Options) (*render.Document, bool, error) {
	r.applyLogger(&opts)
	doc, _, hit, err := r.layout(ctx, calendars, opts)
	return doc, hit, err
}

// GenerateLayout is a convenience wrapper that calls
// GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, calendars []source.Calendar, opts Options) (*render.Document, error) {
	doc, _, err := r.GenerateLayoutWithCacheInfo(ctx, calendars, opts)
	return doc, err
}

func (r *Runner) layout(ctx context.Context, calendars []source.Calendar, opts Options) (*render.Document, Stats, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, false, err
	}

	input, err := json.Marshal(calendars)
	if err != nil {
		return nil, Stats{}, false, fmt.Errorf("serialize input for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(input), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, cacheKey); ok {
			doc, err := render.ReadDocument(bytes.NewReader(data))
			if err == nil {
				return doc, Stats{}, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "error", err)
		}
	}

	res, err := Compute(ctx, calendars, opts)
	if err != nil {
		return nil, Stats{}, false, err
	}
	doc := res.Document(opts)

	if data, err := render.RenderJSON(doc); err == nil {
		r.set(ctx, cacheKey, data, r.ttl(cache.TTLLayout))
	}
	return doc, res.Stats, false, nil
}

// RenderWithCacheInfo renders every requested format, serving them from
// cache when all of them are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *render.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := render.RenderJSON(doc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.get(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := RenderFromDocument(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		r.set(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, r.ttl(cache.TTLArtifact))
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *render.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) get(ctx context.Context, key string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", cache.KeyType(key), "error", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, cache.KeyType(key))
		return nil, false
	}
	hooks.OnCacheHit(ctx, cache.KeyType(key))
	return data, true
}

func (r *Runner) set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", cache.KeyType(key), "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cache.KeyType(key), len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
