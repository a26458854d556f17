package render

import (
	"encoding/json"
	"io"
	"slices"

	"cloud.google.com/go/civil"

	"github.com/matzehuels/yeargrid/pkg/category"
	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/event"
	"github.com/matzehuels/yeargrid/pkg/layout"
	"github.com/matzehuels/yeargrid/pkg/layout/stack"
)

// Display modes for single-day events.
const (
	ModeDots  = "dots"
	ModeStack = "stack"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
)

// Formats lists the supported output formats.
func Formats() []string { return []string{FormatJSON, FormatSVG} }

// Document is a fully computed year layout.
type Document struct {
	Year       int                 `json:"year"`
	Mode       string              `json:"mode"`
	Density    stack.Density       `json:"density"`
	Metrics    stack.Metrics       `json:"metrics"`
	Categories []Category          `json:"categories"`
	Events     []event.Event       `json:"events"`
	Bars       []Bar               `json:"bars"`
	MonthRows  [12]int             `json:"month_rows"`
	Days       []Day               `json:"days"`
	Dropped    map[errors.Code]int `json:"dropped,omitempty"`
}

// Category is one legend entry. Count is the number of events assigned.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Bar is a [layout.Bar] referencing its event by id.
type Bar struct {
	EventID  string `json:"event_id"`
	Month    int    `json:"month"`
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
	Row      int    `json:"row"`
}

// Day holds the buckets of one date. Events lists the single-day events in
// render order and Lines their allocated line counts (stack mode only). All
// lists every event covering the date and Timed the single-day timed
// events by start time.
type Day struct {
	Date   civil.Date `json:"date"`
	Events []string   `json:"events,omitempty"`
	Lines  []int      `json:"lines,omitempty"`
	All    []string   `json:"all,omitempty"`
	Timed  []string   `json:"timed,omitempty"`
}

// Input is what [NewDocument] assembles.
type Input struct {
	Year    int
	Mode    string
	Density stack.Density
	Metrics stack.Metrics
	Rules   category.Rules
	Events  []event.Event
	Bars    []layout.Bar
	Single  layout.DayMap
	All     layout.DayMap
	Timed   layout.DayMap
	Stacks  map[civil.Date][]stack.Allocation
	Dropped []error
}

// NewDocument flattens engine output into a Document. Days without any
// bucket entries are omitted.
func NewDocument(in Input) *Document {
	doc := &Document{
		Year:    in.Year,
		Mode:    in.Mode,
		Density: in.Density,
		Metrics: in.Metrics,
		Events:  in.Events,
		Bars:    make([]Bar, len(in.Bars)),
	}
	if doc.Events == nil {
		doc.Events = []event.Event{}
	}
	for i, b := range in.Bars {
		doc.Bars[i] = Bar{EventID: b.Event.ID, Month: b.Month, StartDay: b.StartDay, EndDay: b.EndDay, Row: b.Row}
	}
	doc.MonthRows = layout.MonthRows(in.Bars)
	doc.Categories = legend(in.Rules, in.Events)
	if len(in.Dropped) > 0 {
		doc.Dropped = errors.CountByCode(in.Dropped)
	}

	dates := make(map[civil.Date]bool)
	for _, m := range []layout.DayMap{in.Single, in.All, in.Timed} {
		for d := range m {
			dates[d] = true
		}
	}
	keys := make([]civil.Date, 0, len(dates))
	for d := range dates {
		keys = append(keys, d)
	}
	slices.SortFunc(keys, civil.Date.Compare)

	doc.Days = make([]Day, 0, len(keys))
	for _, d := range keys {
		day := Day{
			Date:   d,
			Events: ids(in.Single[d]),
			All:    ids(in.All[d]),
			Timed:  ids(in.Timed[d]),
		}
		if allocs, ok := in.Stacks[d]; ok {
			day.Lines = make([]int, len(allocs))
			for i, a := range allocs {
				day.Lines[i] = a.Lines
			}
		}
		doc.Days = append(doc.Days, day)
	}
	return doc
}

// legend lists the rules in priority order followed by the fallback
// category, with event counts. Rules no event uses are kept.
func legend(rules category.Rules, events []event.Event) []Category {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Category]++
	}
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, Category{ID: r.ID, Label: r.Label, Color: r.Color, Count: counts[r.ID]})
	}
	if n := counts[category.UncategorizedID]; n > 0 {
		out = append(out, Category{
			ID:    category.UncategorizedID,
			Label: category.UncategorizedLabel,
			Color: category.UncategorizedColor,
			Count: n,
		})
	}
	return out
}

func ids(events []*event.Event) []string {
	if len(events) == 0 {
		return nil
	}
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.ID
	}
	return out
}

// EventIndex maps event ids to the document's events.
func (d *Document) EventIndex() map[string]*event.Event {
	idx := make(map[string]*event.Event, len(d.Events))
	for i := range d.Events {
		idx[d.Events[i].ID] = &d.Events[i]
	}
	return idx
}

// Day returns the bucket of date, or an empty Day.
func (d *Document) Day(date civil.Date) Day {
	i, ok := slices.BinarySearchFunc(d.Days, date, func(day Day, t civil.Date) int {
		return day.Date.Compare(t)
	})
	if !ok {
		return Day{Date: date}
	}
	return d.Days[i]
}

// RenderJSON serializes the document as indented JSON.
func RenderJSON(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ReadDocument decodes a document written by [RenderJSON].
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout document")
	}
	if err := errors.ValidateYear(doc.Year); err != nil {
		return nil, err
	}
	return &doc, nil
}
