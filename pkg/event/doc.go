// Package event turns raw provider events into canonical [Event] records.
//
// Providers deliver events in the Google Calendar v3 shape
// ([google.golang.org/api/calendar/v3]): a start and end that are either a
// date (all-day) or a date-time with an optional IANA time zone (timed).
// [Normalize] resolves those into inclusive calendar dates, a day count and
// the all-day / multi-day / single-day-timed flags the layout needs, and
// assigns a category with the [category] matcher.
//
// # Date rules
//
// All-day events carry an exclusive end date. The display end is one day
// before it and the duration is the exclusive span, at least one day:
//
//	start 2025-03-10, end 2025-03-12  →  Mar 10 – Mar 11, 2 days
//
// Timed events are resolved in their own time zone (UTC when none or an
// unknown one is given) and counted on the inclusive calendar-day span. An
// end exactly at midnight belongs to the previous day.
//
// # Dropped events
//
// A record that cannot be normalized is never partially emitted. [Normalize]
// returns a nil event and a coded error from [github.com/matzehuels/yeargrid/pkg/errors]:
// EVENT_CANCELLED for cancelled events, INVALID_EVENT for missing fields and
// INVALID_DATE for unparseable or inverted dates. [NormalizeAll] collects
// those errors and keeps going.
package event
