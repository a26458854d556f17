package layout

import (
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"github.com/matzehuels/yeargrid/pkg/event"
)

// Bar is one month-local segment of a multi-day event.
type Bar struct {
	Event    *event.Event
	Month    int // 0-based
	StartDay int // 1-based, inclusive
	EndDay   int // 1-based, inclusive
	Row      int
}

// Span is the number of days the bar covers minus one.
func (b Bar) Span() int { return b.EndDay - b.StartDay }

// Overlaps reports whether two bars share at least one day.
func (b Bar) Overlaps(o Bar) bool {
	return b.Month == o.Month && b.StartDay <= o.EndDay && o.StartDay <= b.EndDay
}

// PackBars lays out the multi-day events intersecting year. Bars reference
// the elements of events and come back ordered by month, then by placement
// order within the month.
func PackBars(events []event.Event, year int) []Bar {
	var months [12][]Bar
	first, last := event.YearBounds(year)

	for i := range events {
		ev := &events[i]
		if ev.DurationDays <= 1 || !ev.InYear(year) {
			continue
		}
		start, end := ev.StartDate, ev.EndDate
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		for m := start.Month; m <= end.Month; m++ {
			b := Bar{Event: ev, Month: int(m) - 1, StartDay: 1, EndDay: DaysIn(year, m)}
			if m == start.Month {
				b.StartDay = start.Day
			}
			if m == end.Month {
				b.EndDay = end.Day
			}
			months[b.Month] = append(months[b.Month], b)
		}
	}

	var out []Bar
	for _, bars := range months {
		out = append(out, assignRows(bars)...)
	}
	return out
}

// assignRows sorts one month's bars and gives each the lowest free row. A
// row is free when its last bar ended strictly before the new bar starts.
func assignRows(bars []Bar) []Bar {
	slices.SortStableFunc(bars, func(a, b Bar) int {
		if a.StartDay != b.StartDay {
			return a.StartDay - b.StartDay
		}
		return b.Span() - a.Span()
	})

	var rowEnds []int
	for i := range bars {
		row := slices.IndexFunc(rowEnds, func(end int) bool { return end < bars[i].StartDay })
		if row < 0 {
			row = len(rowEnds)
			rowEnds = append(rowEnds, 0)
		}
		rowEnds[row] = bars[i].EndDay
		bars[i].Row = row
	}
	return bars
}

// MonthRows returns the number of bar rows used in each month.
func MonthRows(bars []Bar) [12]int {
	var rows [12]int
	for _, b := range bars {
		rows[b.Month] = max(rows[b.Month], b.Row+1)
	}
	return rows
}

// DaysIn returns the number of days in month m of year.
func DaysIn(year int, m time.Month) int {
	return civil.Date{Year: year, Month: m + 1, Day: 0}.In(time.UTC).Day()
}
