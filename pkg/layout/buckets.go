package layout

import (
	"cmp"
	"slices"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/rdleal/intervalst/interval"

	"github.com/matzehuels/yeargrid/pkg/category"
	"github.com/matzehuels/yeargrid/pkg/event"
)

// DayMap groups events by calendar date.
type DayMap map[civil.Date][]*event.Event

// Dates returns the map's keys in calendar order.
func (m DayMap) Dates() []civil.Date {
	dates := make([]civil.Date, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, civil.Date.Compare)
	return dates
}

// BuildSingleDayMap buckets the one-day events dated in year, each bucket
// ordered by category priority, then duration (longest first), start date
// and title.
func BuildSingleDayMap(events []event.Event, year int, rules category.Rules) DayMap {
	out := make(DayMap)
	for i := range events {
		ev := &events[i]
		if ev.DurationDays != 1 || ev.StartDate.Year != year {
			continue
		}
		out[ev.StartDate] = append(out[ev.StartDate], ev)
	}
	sortBuckets(out, priorityOrder(rules))
	return out
}

// BuildDayEventsMap lists, for every date of year, the events whose range
// covers it. Single-day timed events are left out; see [BuildTimedDayMap].
func BuildDayEventsMap(events []event.Event, year int, rules category.Rules) DayMap {
	first, last := event.YearBounds(year)

	// Day numbers are doubled so every stored interval has positive width.
	tree := interval.NewSearchTree[int](func(x, y int) int { return x - y })
	for i := range events {
		ev := &events[i]
		if ev.SingleDayTimed || !ev.InYear(year) {
			continue
		}
		s := max(0, ev.StartDate.DaysSince(first))
		e := min(last.DaysSince(first), ev.EndDate.DaysSince(first))
		_ = tree.Insert(2*s, 2*e+1, i) // 2e+1 > 2s, never rejected

	}

	out := make(DayMap)
	for d, n := first, 0; !d.After(last); d, n = d.AddDays(1), n+1 {
		idx, ok := tree.AllIntersections(2*n, 2*n+1)
		if !ok || len(idx) == 0 {
			continue
		}
		slices.Sort(idx)
		bucket := make([]*event.Event, len(idx))
		for j, i := range idx {
			bucket[j] = &events[i]
		}
		out[d] = bucket
	}
	sortBuckets(out, priorityOrder(rules))
	return out
}

// BuildTimedDayMap buckets single-day timed events by date, ordered by
// start time and then title.
func BuildTimedDayMap(events []event.Event, year int) DayMap {
	out := make(DayMap)
	for i := range events {
		ev := &events[i]
		if !ev.SingleDayTimed || ev.StartDate.Year != year {
			continue
		}
		out[ev.StartDate] = append(out[ev.StartDate], ev)
	}
	sortBuckets(out, func(a, b *event.Event) int {
		return cmp.Or(
			cmp.Compare(a.StartMinutes, b.StartMinutes),
			strings.Compare(a.Title, b.Title),
		)
	})
	return out
}

// priorityOrder compares events by category priority, duration descending,
// start date string and title.
func priorityOrder(rules category.Rules) func(a, b *event.Event) int {
	rank := rules.IndexMap()
	priority := func(id string) int {
		if p, ok := rank[id]; ok {
			return p
		}
		return len(rules)
	}
	return func(a, b *event.Event) int {
		return cmp.Or(
			cmp.Compare(priority(a.Category), priority(b.Category)),
			cmp.Compare(b.DurationDays, a.DurationDays),
			strings.Compare(a.StartDate.String(), b.StartDate.String()),
			strings.Compare(a.Title, b.Title),
		)
	}
}

func sortBuckets(m DayMap, order func(a, b *event.Event) int) {
	for _, bucket := range m {
		slices.SortStableFunc(bucket, order)
	}
}
