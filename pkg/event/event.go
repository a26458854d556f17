package event

import "cloud.google.com/go/civil"

// UntitledTitle replaces empty or whitespace-only event titles.
const UntitledTitle = "Untitled event"

// Event is a normalized calendar event. StartDate and EndDate are inclusive.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Link        string `json:"link,omitempty"`

	StartDate    civil.Date `json:"start_date"`
	EndDate      civil.Date `json:"end_date"`
	DurationDays int        `json:"duration_days"`

	AllDay         bool `json:"all_day,omitempty"`
	MultiDay       bool `json:"multi_day,omitempty"`
	SingleDayTimed bool `json:"single_day_timed,omitempty"`

	// Minutes from midnight in the event's zone. Only set for timed events.
	StartMinutes int `json:"start_minutes,omitempty"`
	EndMinutes   int `json:"end_minutes,omitempty"`

	Category string `json:"category"`
	Color    string `json:"color"`

	CalendarID    string `json:"calendar_id,omitempty"`
	CalendarName  string `json:"calendar_name,omitempty"`
	CalendarColor string `json:"calendar_color,omitempty"`
}

// Covers reports whether d falls within the event's inclusive date range.
func (e *Event) Covers(d civil.Date) bool {
	return !d.Before(e.StartDate) && !d.After(e.EndDate)
}

// InYear reports whether the event's range intersects the given year.
func (e *Event) InYear(year int) bool {
	first, last := YearBounds(year)
	return !e.EndDate.Before(first) && !e.StartDate.After(last)
}

// YearBounds returns January 1 and December 31 of year.
func YearBounds(year int) (first, last civil.Date) {
	return civil.Date{Year: year, Month: 1, Day: 1}, civil.Date{Year: year, Month: 12, Day: 31}
}
