// Package stack decides how many text lines each event title may use when
// several titles are stacked inside one day cell.
//
// A cell has a fixed pixel height. [Budget] turns that height into a total
// line count, [EstimateLines] estimates how many lines a title needs at the
// cell's width, and [Allocate] shares the budget:
//
//   - With no more lines than events, every event gets one line.
//   - When all needs fit, every event gets what it needs.
//   - Otherwise every event keeps one line and the rest is split in
//     proportion to each event's extra need, rounding down. Lines lost to
//     rounding go one at a time to the events missing the most, earlier
//     events first on ties.
//
// The result is deterministic for identical input.
package stack
