package pipeline

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/event"
	"github.com/matzehuels/yeargrid/pkg/layout"
	"github.com/matzehuels/yeargrid/pkg/layout/stack"
	"github.com/matzehuels/yeargrid/pkg/observability"
	"github.com/matzehuels/yeargrid/pkg/render"
	"github.com/matzehuels/yeargrid/pkg/source"
)

// Result is the in-memory output of [Compute]. Bars and buckets point into
// Events.
type Result struct {
	Events  []event.Event
	Bars    []layout.Bar
	Single  layout.DayMap
	All     layout.DayMap
	Timed   layout.DayMap
	Stacks  map[civil.Date][]stack.Allocation
	Dropped []error
	Stats   Stats
}

// Compute normalizes and classifies the events of every calendar, then
// lays out opts.Year. Records that fail normalization are collected in
// Result.Dropped and never fail the run.
func Compute(ctx context.Context, calendars []source.Calendar, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	res := &Result{Stats: Stats{Calendars: len(calendars)}}

	// Normalize
	start := time.Now()
	for _, cal := range calendars {
		res.Stats.RawEvents += len(cal.Events)
		events, errs := event.NormalizeAll(cal.Events, opts.Rules, event.Options{
			CalendarID:       cal.ID,
			CalendarName:     cal.Name,
			CalendarColor:    cal.Color,
			MatchDescription: opts.MatchDescription,
		})
		res.Events = append(res.Events, events...)
		res.Dropped = append(res.Dropped, cal.Warnings...)
		res.Dropped = append(res.Dropped, errs...)
	}
	res.Stats.Events = len(res.Events)
	res.Stats.Dropped = len(res.Dropped)
	res.Stats.NormalizeTime = time.Since(start)
	hooks.OnNormalizeComplete(ctx, res.Stats.Events, res.Stats.Dropped, res.Stats.NormalizeTime)

	opts.Logger.Debug("normalized events",
		"kept", res.Stats.Events,
		"dropped", res.Stats.Dropped,
		"duration", res.Stats.NormalizeTime)
	for code, n := range errors.CountByCode(res.Dropped) {
		opts.Logger.Debug("dropped events", "reason", code, "count", n)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Layout
	hooks.OnLayoutStart(ctx, opts.Mode, len(res.Events))
	start = time.Now()
	res.Bars = layout.PackBars(res.Events, opts.Year)
	res.Single = layout.BuildSingleDayMap(res.Events, opts.Year, opts.Rules)
	res.All = layout.BuildDayEventsMap(res.Events, opts.Year, opts.Rules)
	res.Timed = layout.BuildTimedDayMap(res.Events, opts.Year)
	res.Stacks = make(map[civil.Date][]stack.Allocation)
	if opts.Mode == render.ModeStack {
		m := opts.Metrics()
		for d, bucket := range res.Single {
			res.Stacks[d] = stack.AllocateCell(bucket, m)
		}
	}
	res.Stats.Bars = len(res.Bars)
	res.Stats.Days = len(res.All)
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, opts.Mode, res.Stats.Bars, res.Stats.LayoutTime, nil)

	opts.Logger.Debug("computed layout",
		"bars", res.Stats.Bars,
		"rows", layout.MonthRows(res.Bars),
		"days", res.Stats.Days,
		"duration", res.Stats.LayoutTime)
	return res, nil
}

// Document converts the result into its serializable form.
func (r *Result) Document(opts Options) *render.Document {
	return render.NewDocument(render.Input{
		Year:    opts.Year,
		Mode:    opts.Mode,
		Density: opts.Density,
		Metrics: opts.Metrics(),
		Rules:   opts.Rules,
		Events:  r.Events,
		Bars:    r.Bars,
		Single:  r.Single,
		All:     r.All,
		Timed:   r.Timed,
		Stacks:  r.Stacks,
		Dropped: r.Dropped,
	})
}
