// Package source reads raw calendar events from local files.
//
// Every reader produces events in the Google Calendar v3 shape
// (*calendar.Event from google.golang.org/api/calendar/v3), the input of
// the event normalizer. Two formats are supported:
//
//   - JSON: a calendar#events document as returned by the Calendar API
//     (events under "items") or a bare array of events. See [ReadEvents].
//   - iCalendar: VEVENTs are converted field by field and recurring events
//     are expanded into one event per occurrence in the requested year,
//     honoring EXDATE and RECURRENCE-ID overrides. See [ParseICS].
//
// [LoadFile] picks the reader from the file extension. A VEVENT that cannot
// be converted is reported as a warning and skipped; the rest of the file
// still loads.
package source
