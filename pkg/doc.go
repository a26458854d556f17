// Package pkg provides the core libraries for yeargrid year layouts.
//
// # Overview
//
// yeargrid turns calendar exports into a one-page view of a year: every
// event is assigned a user-defined category by keyword rules, multi-day
// events become bars packed into rows per month, and single-day events are
// drawn as dots or as stacked titles whose line budget is shared fairly
// inside a day cell. The pkg directory is organized into these areas:
//
//  1. [source] and [event] - Reading and normalizing events
//  2. [category] - Keyword rules and classification
//  3. [layout] - Bar packing, day buckets, stack lines and popup placement
//  4. [render] - The layout document and its JSON and SVG forms
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	Google Calendar JSON / iCalendar (.ics)
//	         ↓
//	    [source] package (parse, expand recurrences)
//	         ↓
//	    [event] package (normalize dates, classify via [category])
//	         ↓
//	    [layout] package (bars, day maps, [layout/stack] line allocation)
//	         ↓
//	    [render] package (Document → JSON / SVG)
//
// # Quick Start
//
//	rules := category.NewRules([]category.Rule{
//	    {ID: "travel", Label: "Travel", Color: "#0ea5e9", Keywords: []string{"trip", "flight"}},
//	}, nil)
//
//	raws, _, _ := source.LoadFile("calendar.ics", 2025, time.UTC)
//	events, dropped := event.NormalizeAll(raws, rules, event.Options{})
//
//	bars := layout.PackBars(events, 2025)
//	single := layout.BuildSingleDayMap(events, 2025, rules)
//
// # Main Packages
//
// [category] - Case-insensitive keyword rules with priority ordering. The
// first matching rule wins; unmatched events are "uncategorized".
//
// [event] - The normalized [event.Event] with inclusive civil dates,
// duration in days and the all-day, multi-day and timed flags.
//
// [layout] - Greedy per-month row packing of multi-day bars and the
// single-day, all-events and timed day maps, backed by an interval tree.
//
// [layout/stack] - Density presets and the fair line allocator used in
// stack mode.
//
// [layout/tooltip] - Two-phase popup placement: provisional at the origin,
// then clamped to the viewport once measured.
//
// [render] - The serializable layout [render.Document] and its SVG
// renderer with optional hover popups.
//
// [config] - TOML or YAML configuration: calendars, categories, display and
// cache settings.
//
// [pipeline] - The load → layout → render flow shared by every command,
// cached through [cache] (file, Redis or none).
//
// [errors] - Coded errors; records dropped during normalization are counted
// by code.
//
// [observability] - Hooks for pipeline stages and cache events.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example ./...  # Examples only
package pkg
