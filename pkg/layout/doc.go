// Package layout places normalized events on a twelve-month year grid.
//
// The grid has one row per month and one column per day. Two kinds of
// placement come out of this package:
//
//   - Multi-day events become horizontal bars. [PackBars] clips each event to
//     the year, splits it at month boundaries and assigns every month-local
//     segment a row so bars sharing a row never overlap.
//   - Single-day events become dots or stacked labels inside a day cell.
//     [BuildSingleDayMap] groups them by date in category-priority order.
//
// # Row assignment
//
// Rows are assigned per month with greedy interval coloring: bars sorted by
// start day (longer first on ties) each take the lowest row whose last bar
// ended strictly before the new bar starts. For interval graphs this uses
// the minimum number of rows. Rows are unbounded; the renderer decides how
// to compress them.
//
// # Day buckets
//
// [BuildDayEventsMap] answers "what touches this day" for detail popups and
// [BuildTimedDayMap] lists single-day timed events by start time. Stacked
// line allocation inside a cell lives in the stack subpackage and popup
// placement in the tooltip subpackage.
package layout
