package source

import (
	"bytes"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"google.golang.org/api/calendar/v3"

	"github.com/matzehuels/yeargrid/pkg/errors"
)

// MaxOccurrences caps the instances generated for one recurring event.
const MaxOccurrences = 5000

const (
	icsDate         = "20060102"
	icsDateTime     = "20060102T150405"
	icsDateTimeUTC  = "20060102T150405Z"
	instanceDate    = "20060102"
	instanceTimeUTC = "20060102T150405Z"
)

// vevent is the subset of a VEVENT the converter needs.
type vevent struct {
	uid         string
	summary     string
	description string
	location    string
	status      string
	url         string

	allDay bool
	start  time.Time
	end    time.Time
	zone   string

	rrule        string
	exdates      []time.Time
	recurrenceID *time.Time
}

// ParseICS converts the VEVENTs of an iCalendar document. Recurring events
// are expanded into the occurrences that touch year; floating times are read
// in loc (UTC when nil). VEVENTs that cannot be converted are returned as
// warnings.
func ParseICS(body []byte, year int, loc *time.Location) ([]*calendar.Event, []error, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "empty iCalendar document")
	}
	if loc == nil {
		loc = time.UTC
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse iCalendar")
	}

	var (
		parsed    []vevent
		warnings  []error
		overrides = make(map[string][]vevent)
	)
	for _, ve := range cal.Events() {
		v, err := parseVEvent(ve, loc)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		if v.recurrenceID != nil {
			overrides[v.uid] = append(overrides[v.uid], v)
			continue
		}
		parsed = append(parsed, v)
	}

	var out []*calendar.Event
	for _, v := range parsed {
		if v.rrule == "" {
			out = append(out, v.toEvent(v.uid))
			continue
		}
		instances, err := expand(v, overrides[v.uid], year)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		out = append(out, instances...)
	}
	return out, warnings, nil
}

// expand generates the occurrences of a recurring VEVENT that overlap year.
// An override whose RECURRENCE-ID equals an occurrence start replaces it.
func expand(v vevent, overrides []vevent, year int) ([]*calendar.Event, error) {
	r, err := rrule.StrToRRule(v.rrule)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "event %s: RRULE %q", v.uid, v.rrule)
	}
	r.DTStart(v.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range v.exdates {
		set.ExDate(ex.In(v.start.Location()))
	}

	dur := v.end.Sub(v.start)
	from := time.Date(year, 1, 1, 0, 0, 0, 0, v.start.Location()).Add(-dur)
	to := time.Date(year+1, 1, 1, 0, 0, 0, 0, v.start.Location())

	starts := set.Between(from, to, false)
	if len(starts) > MaxOccurrences {
		starts = starts[:MaxOccurrences]
	}

	out := make([]*calendar.Event, 0, len(starts))
	for _, s := range starts {
		inst := v
		inst.start, inst.end = s, s.Add(dur)
		for _, o := range overrides {
			if o.recurrenceID.Equal(s) {
				inst = o
				break
			}
		}
		ev := inst.toEvent(instanceID(v.uid, s, v.allDay))
		ev.RecurringEventId = v.uid
		out = append(out, ev)
	}
	return out, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (vevent, error) {
	v := vevent{
		uid:         propValue(ve, ical.ComponentPropertyUniqueId),
		summary:     propValue(ve, ical.ComponentPropertySummary),
		description: propValue(ve, ical.ComponentPropertyDescription),
		location:    propValue(ve, ical.ComponentPropertyLocation),
		status:      strings.ToLower(propValue(ve, ical.ComponentPropertyStatus)),
		url:         propValue(ve, ical.ComponentPropertyUrl),
		rrule:       propValue(ve, ical.ComponentPropertyRrule),
	}
	if v.uid == "" {
		return v, errors.New(errors.ErrCodeInvalidEvent, "VEVENT without UID")
	}

	dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil {
		return v, errors.New(errors.ErrCodeInvalidEvent, "event %s: missing DTSTART", v.uid)
	}
	var err error
	v.start, v.zone, v.allDay, err = parseTime(dtstart.Value, dtstart.ICalParameters, loc)
	if err != nil {
		return v, errors.Wrap(errors.ErrCodeInvalidDate, err, "event %s: DTSTART", v.uid)
	}

	switch dtend := ve.GetProperty(ical.ComponentPropertyDtEnd); {
	case dtend != nil:
		v.end, _, _, err = parseTime(dtend.Value, dtend.ICalParameters, loc)
		if err != nil {
			return v, errors.Wrap(errors.ErrCodeInvalidDate, err, "event %s: DTEND", v.uid)
		}
	case v.allDay:
		v.end = v.start.AddDate(0, 0, 1)
	default:
		v.end = v.start
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, _, _, err := parseTime(part, p.ICalParameters, loc); err == nil {
				v.exdates = append(v.exdates, t)
			}
		}
	}

	if rid := ve.GetProperty(ical.ComponentPropertyRecurrenceId); rid != nil {
		t, _, _, err := parseTime(rid.Value, rid.ICalParameters, loc)
		if err != nil {
			return v, errors.Wrap(errors.ErrCodeInvalidDate, err, "event %s: RECURRENCE-ID", v.uid)
		}
		v.recurrenceID = &t
	}
	return v, nil
}

// parseTime reads a DATE or DATE-TIME value. It returns the instant, the
// IANA zone it was written in and whether it was a plain date.
func parseTime(value string, params map[string][]string, loc *time.Location) (time.Time, string, bool, error) {
	value = strings.TrimSpace(value)
	zone := loc
	if tzid := params["TZID"]; len(tzid) > 0 {
		if l, err := time.LoadLocation(strings.Trim(tzid[0], `"`)); err == nil {
			zone = l
		}
	}

	isDate := !strings.Contains(value, "T")
	if vt := params["VALUE"]; len(vt) > 0 && strings.EqualFold(vt[0], "DATE") {
		isDate = true
	}

	switch {
	case isDate:
		t, err := time.ParseInLocation(icsDate, value[:min(len(value), len(icsDate))], time.UTC)
		return t, "", true, err
	case strings.HasSuffix(value, "Z"):
		t, err := time.Parse(icsDateTimeUTC, value)
		return t, "UTC", false, err
	default:
		t, err := time.ParseInLocation(icsDateTime, value, zone)
		return t, zone.String(), false, err
	}
}

func (v vevent) toEvent(id string) *calendar.Event {
	ev := &calendar.Event{
		Id:          id,
		Summary:     v.summary,
		Description: v.description,
		Location:    v.location,
		Status:      v.status,
		HtmlLink:    v.url,
	}
	if v.allDay {
		ev.Start = &calendar.EventDateTime{Date: v.start.Format(time.DateOnly)}
		ev.End = &calendar.EventDateTime{Date: v.end.Format(time.DateOnly)}
		return ev
	}
	ev.Start = &calendar.EventDateTime{DateTime: v.start.Format(time.RFC3339), TimeZone: v.zone}
	ev.End = &calendar.EventDateTime{DateTime: v.end.Format(time.RFC3339), TimeZone: v.zone}
	return ev
}

// instanceID follows the Calendar API's "<id>_<start>" naming for
// occurrences of recurring events.
func instanceID(uid string, start time.Time, allDay bool) string {
	if allDay {
		return uid + "_" + start.Format(instanceDate)
	}
	return uid + "_" + start.UTC().Format(instanceTimeUTC)
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return strings.TrimSpace(prop.Value)
	}
	return ""
}
