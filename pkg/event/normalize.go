package event

import (
	"strings"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"google.golang.org/api/calendar/v3"

	"github.com/matzehuels/yeargrid/pkg/category"
	"github.com/matzehuels/yeargrid/pkg/errors"
)

// StatusCancelled is the provider status of deleted or declined occurrences.
const StatusCancelled = "cancelled"

// Options carries per-source context for [Normalize].
type Options struct {
	// CalendarID namespaces event ids as "<CalendarID>:<raw id>" so events
	// from several source calendars never collide.
	CalendarID    string
	CalendarName  string
	CalendarColor string

	// MatchDescription lets the category matcher fall back to the event
	// description when the title matches no rule.
	MatchDescription bool
}

// Normalize converts one raw provider event into an [Event]. Records that
// are cancelled or malformed yield a nil event and a coded error.
func Normalize(raw *calendar.Event, rules category.Rules, opts Options) (*Event, error) {
	if raw == nil {
		return nil, errors.New(errors.ErrCodeInvalidEvent, "nil event")
	}
	if raw.Status == StatusCancelled {
		return nil, errors.New(errors.ErrCodeEventCancelled, "event %q is cancelled", raw.Id)
	}
	if raw.Id == "" {
		return nil, errors.New(errors.ErrCodeInvalidEvent, "event has no id")
	}
	if raw.Start == nil || raw.End == nil {
		return nil, errors.New(errors.ErrCodeInvalidEvent, "event %q is missing start or end", raw.Id)
	}

	ev := &Event{
		ID:            raw.Id,
		Title:         strings.TrimSpace(raw.Summary),
		Description:   raw.Description,
		Location:      raw.Location,
		Link:          raw.HtmlLink,
		CalendarID:    opts.CalendarID,
		CalendarName:  opts.CalendarName,
		CalendarColor: opts.CalendarColor,
	}
	if ev.Title == "" {
		ev.Title = UntitledTitle
	}
	if opts.CalendarID != "" {
		ev.ID = opts.CalendarID + ":" + raw.Id
	}

	var err error
	switch {
	case raw.Start.Date != "":
		err = resolveAllDay(ev, raw.Start, raw.End)
	case raw.Start.DateTime != "":
		err = resolveTimed(ev, raw.Start, raw.End)
	default:
		err = errors.New(errors.ErrCodeInvalidEvent, "event %q has neither date nor date-time start", raw.Id)
	}
	if err != nil {
		return nil, err
	}

	ev.MultiDay = ev.DurationDays > 1
	ev.SingleDayTimed = !ev.AllDay && !ev.MultiDay

	res := category.Classify(ev.Title, rules, category.Options{
		Description:      raw.Description,
		MatchDescription: opts.MatchDescription,
	})
	ev.Category, ev.Color = res.Category, res.Color
	return ev, nil
}

// NormalizeAll normalizes a batch. Dropped records are reported in errs and
// never abort the batch.
func NormalizeAll(raws []*calendar.Event, rules category.Rules, opts Options) (events []Event, errs []error) {
	events = make([]Event, 0, len(raws))
	for _, raw := range raws {
		ev, err := Normalize(raw, rules, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, *ev)
	}
	return events, errs
}

func resolveAllDay(ev *Event, start, end *calendar.EventDateTime) error {
	if end.Date == "" {
		return errors.New(errors.ErrCodeInvalidEvent, "all-day event %q has no end date", ev.ID)
	}
	s, err := civil.ParseDate(start.Date)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDate, err, "event %q start", ev.ID)
	}
	exclusiveEnd, err := civil.ParseDate(end.Date)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDate, err, "event %q end", ev.ID)
	}
	span := exclusiveEnd.DaysSince(s)
	if span < 0 {
		return errors.New(errors.ErrCodeInvalidDate, "event %q ends %s before it starts %s", ev.ID, exclusiveEnd, s)
	}

	ev.AllDay = true
	ev.StartDate = s
	ev.EndDate = exclusiveEnd.AddDays(-1)
	if ev.EndDate.Before(s) {
		ev.EndDate = s
	}
	ev.DurationDays = max(1, span)
	return nil
}

func resolveTimed(ev *Event, start, end *calendar.EventDateTime) error {
	if end.DateTime == "" {
		return errors.New(errors.ErrCodeInvalidEvent, "timed event %q has no end time", ev.ID)
	}
	st, err := time.Parse(time.RFC3339, start.DateTime)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDate, err, "event %q start", ev.ID)
	}
	et, err := time.Parse(time.RFC3339, end.DateTime)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDate, err, "event %q end", ev.ID)
	}
	if et.Before(st) {
		return errors.New(errors.ErrCodeInvalidDate, "event %q ends before it starts", ev.ID)
	}

	st = st.In(zoneOf(start.TimeZone))
	et = et.In(zoneOf(firstNonEmpty(end.TimeZone, start.TimeZone)))

	s, e := civil.DateOf(st), civil.DateOf(et)
	if et.After(st) && isMidnight(et) {
		e = e.AddDays(-1)
	}
	if e.Before(s) {
		e = s
	}

	ev.StartDate = s
	ev.EndDate = e
	ev.DurationDays = max(1, e.DaysSince(s)+1)
	ev.StartMinutes = st.Hour()*60 + st.Minute()
	ev.EndMinutes = et.Hour()*60 + et.Minute()
	if e != civil.DateOf(et) {
		ev.EndMinutes = 24 * 60
	}
	return nil
}

// zoneOf loads an IANA zone, falling back to UTC for empty or unknown names.
func zoneOf(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
