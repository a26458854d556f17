// Package render turns a computed year layout into output artifacts.
//
// # Overview
//
// [Document] is the serialization boundary between layout and output. It
// carries everything a renderer needs without re-running the engine:
//
//   - The normalized events of the year
//   - Month-local bars for multi-day events with their packed rows
//   - Per-day buckets (single-day events, covering events, timed events)
//   - Per-day line allocations when the display mode is "stack"
//   - The category legend in priority order
//
// Documents are cached as JSON by the pipeline. [RenderJSON] and
// [ReadDocument] are exact inverses.
//
// # SVG
//
// [RenderSVG] draws twelve month rows of up to 31 day cells. Bars sit in a
// band above the cells of their month, one band row per packed row. Day
// cells show single-day events as colored dots or, in stack mode, as
// wrapped titles using the allocated line counts.
//
//	svg := render.RenderSVG(doc, render.WithPopups())
//
// [WithPopups] adds a hover popup per event, positioned by an embedded
// script using the same right/left/below/above rule as the tooltip package.
package render
