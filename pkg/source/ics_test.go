package source

import (
	"strings"
	"testing"
	"time"
)

func ics(events ...string) string {
	lines := []string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//yeargrid//test//EN"}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

const allDayEvent = `BEGIN:VEVENT
UID:conf@example.com
DTSTAMP:20250101T000000Z
SUMMARY:Conference
DESCRIPTION:Annual meetup
URL:https://example.com/conf
DTSTART;VALUE=DATE:20250130
DTEND;VALUE=DATE:20250203
END:VEVENT`

func crlf(s string) string { return strings.ReplaceAll(s, "\n", "\r\n") }

func TestParseICSSingleEvents(t *testing.T) {
	timed := `BEGIN:VEVENT
UID:call@example.com
DTSTAMP:20250101T000000Z
SUMMARY:Planning call
STATUS:CONFIRMED
DTSTART;TZID=Europe/Berlin:20250304T093000
DTEND;TZID=Europe/Berlin:20250304T101500
END:VEVENT`
	utc := `BEGIN:VEVENT
UID:utc@example.com
DTSTAMP:20250101T000000Z
SUMMARY:Deploy
DTSTART:20250305T220000Z
DTEND:20250305T230000Z
END:VEVENT`
	cancelled := `BEGIN:VEVENT
UID:gone@example.com
DTSTAMP:20250101T000000Z
SUMMARY:Gone
STATUS:CANCELLED
DTSTART;VALUE=DATE:20250310
END:VEVENT`

	events, warnings, err := ParseICS([]byte(ics(crlf(allDayEvent), crlf(timed), crlf(utc), crlf(cancelled))), 2025, time.UTC)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	conf := events[0]
	if conf.Id != "conf@example.com" || conf.Start.Date != "2025-01-30" || conf.End.Date != "2025-02-03" {
		t.Errorf("all-day = %+v %+v %+v", conf, conf.Start, conf.End)
	}
	if conf.HtmlLink != "https://example.com/conf" || conf.Description != "Annual meetup" {
		t.Errorf("text fields = %q %q", conf.HtmlLink, conf.Description)
	}

	call := events[1]
	if call.Start.DateTime != "2025-03-04T09:30:00+01:00" || call.Start.TimeZone != "Europe/Berlin" {
		t.Errorf("timed start = %+v", call.Start)
	}
	if call.Status != "confirmed" {
		t.Errorf("status = %q", call.Status)
	}

	if got := events[2].Start; got.DateTime != "2025-03-05T22:00:00Z" || got.TimeZone != "UTC" {
		t.Errorf("utc start = %+v", got)
	}

	gone := events[3]
	if gone.Status != "cancelled" || gone.End.Date != "2025-03-11" {
		t.Errorf("cancelled = %q end %+v", gone.Status, gone.End)
	}
}

func TestParseICSRecurrence(t *testing.T) {
	weekly := `BEGIN:VEVENT
UID:standup@example.com
DTSTAMP:20250101T000000Z
SUMMARY:Standup
DTSTART:20241223T090000Z
DTEND:20241223T091500Z
RRULE:FREQ=WEEKLY;COUNT=5
EXDATE:20250106T090000Z
END:VEVENT`
	moved := `BEGIN:VEVENT
UID:standup@example.com
DTSTAMP:20250101T000000Z
RECURRENCE-ID:20250113T090000Z
SUMMARY:Standup (moved)
DTSTART:20250113T140000Z
DTEND:20250113T141500Z
END:VEVENT`

	events, warnings, err := ParseICS([]byte(ics(crlf(weekly), crlf(moved))), 2025, time.UTC)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}

	// Dec 23 and Dec 30 fall in 2024, Jan 6 is excluded.
	var got []string
	for _, ev := range events {
		got = append(got, ev.Id+" "+ev.Summary+" "+ev.Start.DateTime)
		if ev.RecurringEventId != "standup@example.com" {
			t.Errorf("%s: RecurringEventId = %q", ev.Id, ev.RecurringEventId)
		}
	}
	want := []string{
		"standup@example.com_20250113T090000Z Standup (moved) 2025-01-13T14:00:00Z",
		"standup@example.com_20250120T090000Z Standup 2025-01-20T09:00:00Z",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("instances:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestParseICSAllDayRecurrenceAcrossYearStart(t *testing.T) {
	yearly := `BEGIN:VEVENT
UID:nye@example.com
DTSTAMP:20200101T000000Z
SUMMARY:New Year trip
DTSTART;VALUE=DATE:20201230
DTEND;VALUE=DATE:20210103
RRULE:FREQ=YEARLY
END:VEVENT`

	events, _, err := ParseICS([]byte(ics(crlf(yearly))), 2025, time.UTC)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(events))
	}
	if events[0].Start.Date != "2024-12-30" || events[0].End.Date != "2025-01-03" {
		t.Errorf("first = %+v - %+v", events[0].Start, events[0].End)
	}
	if events[1].Id != "nye@example.com_20251230" {
		t.Errorf("second id = %s", events[1].Id)
	}
}

func TestParseICSWarnings(t *testing.T) {
	noUID := `BEGIN:VEVENT
DTSTAMP:20250101T000000Z
SUMMARY:Anonymous
DTSTART;VALUE=DATE:20250101
END:VEVENT`
	badRule := `BEGIN:VEVENT
UID:bad@example.com
DTSTAMP:20250101T000000Z
SUMMARY:Bad rule
DTSTART;VALUE=DATE:20250101
RRULE:FREQ=SOMETIMES
END:VEVENT`

	events, warnings, err := ParseICS([]byte(ics(crlf(allDayEvent), crlf(noUID), crlf(badRule))), 2025, time.UTC)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
	if len(warnings) != 2 {
		t.Errorf("got %d warnings, want 2: %v", len(warnings), warnings)
	}

	if _, _, err := ParseICS(nil, 2025, nil); err == nil {
		t.Error("empty body should fail")
	}
}
