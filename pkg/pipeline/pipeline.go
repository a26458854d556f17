// Package pipeline runs the load → classify → layout → render flow used by
// the CLI.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read the configured calendar files (JSON or iCalendar)
//  2. Normalize: Turn raw events into classified [event.Event] values
//  3. Layout: Pack bars, build day buckets and allocate stack lines
//  4. Render: Produce JSON or SVG from the layout [render.Document]
//
// Stages 2 and 3 are pure and run together in [Compute]. The [Runner]
// wraps them with a cache keyed by a content hash of the loaded events and
// the options that change the layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, ruleErrs := pipeline.FromConfig(cfg)
//	opts.Formats = []string{"svg"}
//	out, err := runner.Execute(ctx, cfg.Calendars, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := out.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yeargrid/pkg/cache"
	"github.com/matzehuels/yeargrid/pkg/category"
	"github.com/matzehuels/yeargrid/pkg/config"
	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/layout/stack"
	"github.com/matzehuels/yeargrid/pkg/layout/tooltip"
	"github.com/matzehuels/yeargrid/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultMode    = render.ModeDots
	DefaultDensity = stack.DensityNormal
	DefaultFormat  = render.FormatSVG
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Layout options
	Year             int            `json:"year"`
	Mode             string         `json:"mode"`
	Density          stack.Density  `json:"density"`
	MatchDescription bool           `json:"match_description,omitempty"`
	Rules            category.Rules `json:"rules"`
	Refresh          bool           `json:"refresh,omitempty"`

	// Render options
	Formats        []string `json:"formats,omitempty"`
	Popups         bool     `json:"popups,omitempty"`
	TooltipPadding float64  `json:"tooltip_padding,omitempty"`
	TooltipOffset  float64  `json:"tooltip_offset,omitempty"`

	// Runtime options (not serialized)
	Location *time.Location `json:"-"`
	Logger   *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig derives options from a loaded configuration. The returned
// errors describe category rules that were skipped.
func FromConfig(cfg *config.Config) (Options, []error) {
	rules, errs := cfg.Rules()
	return Options{
		Year:             cfg.Year,
		Mode:             cfg.Display.Mode,
		Density:          cfg.Display.Density,
		MatchDescription: cfg.MatchDescription,
		Rules:            rules,
		TooltipPadding:   cfg.Tooltip.Padding,
		TooltipOffset:    cfg.Tooltip.Offset,
		Location:         cfg.Location(),
	}, errs
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Year == 0 {
		o.Year = time.Now().Year()
	}
	if err := errors.ValidateYear(o.Year); err != nil {
		return err
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := errors.ValidateFormat(o.Mode, render.ModeDots, render.ModeStack); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "mode")
	}
	if o.Density == "" {
		o.Density = DefaultDensity
	}
	if _, ok := stack.MetricsFor(o.Density); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown density %q", o.Density)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, render.Formats()...); err != nil {
			return err
		}
	}
	if o.TooltipPadding <= 0 {
		o.TooltipPadding = tooltip.DefaultPadding
	}
	if o.TooltipOffset <= 0 {
		o.TooltipOffset = tooltip.DefaultOffset
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Metrics returns the cell geometry of the configured density.
func (o *Options) Metrics() stack.Metrics {
	m, _ := stack.MetricsFor(o.Density)
	return m
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	rules, _ := json.Marshal(o.Rules)
	return cache.LayoutKeyOpts{
		Year:             o.Year,
		Mode:             o.Mode,
		Density:          string(o.Density),
		MatchDescription: o.MatchDescription,
		RulesHash:        cache.Hash(rules),
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format == render.FormatSVG {
		k.Popups = o.Popups
		k.TooltipPadding = o.TooltipPadding
		k.TooltipOffset = o.TooltipOffset
	}
	return k
}

// =============================================================================
// Results
// =============================================================================

// Output contains everything a Runner.Execute call produced.
type Output struct {
	Document  *render.Document
	Artifacts map[string][]byte
	Warnings  []error
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. Counts are zero for stages
// served from cache.
type Stats struct {
	Calendars     int
	RawEvents     int
	Events        int
	Dropped       int
	Bars          int
	Days          int
	LoadTime      time.Duration
	NormalizeTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
