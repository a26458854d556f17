package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"google.golang.org/api/calendar/v3"

	"github.com/matzehuels/yeargrid/pkg/cache"
	"github.com/matzehuels/yeargrid/pkg/category"
	"github.com/matzehuels/yeargrid/pkg/config"
	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/observability"
	"github.com/matzehuels/yeargrid/pkg/render"
	"github.com/matzehuels/yeargrid/pkg/source"
)

func testRules() category.Rules {
	return category.NewRules([]category.Rule{
		{ID: "birthdays", Label: "Birthdays", Color: "#ec4899", Keywords: []string{"birthday"}},
		{ID: "family", Label: "Family", Color: "#f97316", Keywords: []string{"family"}},
		{ID: "holidays", Label: "Holidays", Color: "#0ea5e9", Keywords: []string{"trip", "vacation"}},
	}, []string{"family"})
}

func allDay(id, title, start, end string) *calendar.Event {
	return &calendar.Event{
		Id:      id,
		Summary: title,
		Start:   &calendar.EventDateTime{Date: start},
		End:     &calendar.EventDateTime{Date: end},
	}
}

func testCalendars() []source.Calendar {
	cancelled := allDay("gone", "Cancelled dinner", "2025-03-01", "2025-03-02")
	cancelled.Status = "cancelled"
	return []source.Calendar{{
		ID:   "home",
		Name: "Home",
		Events: []*calendar.Event{
			allDay("conf", "Conference", "2025-01-30", "2025-02-03"),
			allDay("nyc", "Family trip to NYC", "2025-06-10", "2025-06-11"),
			{
				Id:      "lunch",
				Summary: "Lunch",
				Start:   &calendar.EventDateTime{DateTime: "2025-06-10T12:00:00Z"},
				End:     &calendar.EventDateTime{DateTime: "2025-06-10T13:00:00Z"},
			},
			cancelled,
		},
		Warnings: []error{errors.New(errors.ErrCodeInvalidEvent, "VEVENT without UID")},
	}}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if opts.Year != time.Now().Year() || opts.Mode != DefaultMode || opts.Density != DefaultDensity {
		t.Errorf("defaults = %+v", opts)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != render.FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Location == nil || opts.Logger == nil {
		t.Error("runtime defaults not set")
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"year", Options{Year: 12}, errors.ErrCodeInvalidYear},
		{"mode", Options{Mode: "grid"}, errors.ErrCodeInvalidInput},
		{"density", Options{Density: "tiny"}, errors.ErrCodeInvalidInput},
		{"format", Options{Formats: []string{"svg", "pdf"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	res, err := Compute(context.Background(), testCalendars(), Options{Year: 2025, Mode: render.ModeStack, Rules: testRules()})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if res.Stats.RawEvents != 4 || res.Stats.Events != 3 || res.Stats.Dropped != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	counts := errors.CountByCode(res.Dropped)
	if counts[errors.ErrCodeEventCancelled] != 1 || counts[errors.ErrCodeInvalidEvent] != 1 {
		t.Errorf("dropped = %v", counts)
	}

	if len(res.Bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(res.Bars))
	}
	jan, feb := res.Bars[0], res.Bars[1]
	if jan.Month != 0 || jan.StartDay != 30 || jan.EndDay != 31 || feb.Month != 1 || feb.StartDay != 1 || feb.EndDay != 2 {
		t.Errorf("bars = %+v / %+v", jan, feb)
	}

	for _, ev := range res.Events {
		if ev.ID == "home:nyc" && ev.Category != "family" {
			t.Errorf("Family trip to NYC classified as %q", ev.Category)
		}
		if ev.CalendarName != "Home" {
			t.Errorf("%s: calendar name %q", ev.ID, ev.CalendarName)
		}
	}

	doc := res.Document(Options{Year: 2025, Mode: render.ModeStack, Rules: testRules()})
	jun10 := doc.Day(civilDate(2025, 6, 10))
	if strings.Join(jun10.Events, ",") != "home:nyc,home:lunch" {
		t.Errorf("Jun 10 = %v", jun10.Events)
	}
	if len(jun10.Lines) != 2 {
		t.Errorf("Jun 10 lines = %v", jun10.Lines)
	}
	if doc.Categories[0].ID != "family" {
		t.Errorf("legend starts with %s, want family", doc.Categories[0].ID)
	}
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compute(ctx, testCalendars(), Options{Year: 2025}); err == nil {
		t.Error("expected context error")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	hits   map[string]int
	misses map[string]int
	sets   map[string]int
	stages []string
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{hits: map[string]int{}, misses: map[string]int{}, sets: map[string]int{}}
}

func (h *recordingHooks) OnCacheHit(_ context.Context, k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[k]++
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses[k]++
}

func (h *recordingHooks) OnCacheSet(_ context.Context, k string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets[k]++
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, mode string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, "layout:"+mode)
}

func TestRunnerCaching(t *testing.T) {
	hooks := newRecordingHooks()
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Year: 2025, Rules: testRules(), Formats: []string{render.FormatSVG, render.FormatJSON}}

	doc, hit, err := r.GenerateLayoutWithCacheInfo(ctx, testCalendars(), opts)
	if err != nil || hit {
		t.Fatalf("first layout: hit=%v err=%v", hit, err)
	}
	again, hit, err := r.GenerateLayoutWithCacheInfo(ctx, testCalendars(), opts)
	if err != nil || !hit {
		t.Fatalf("second layout: hit=%v err=%v", hit, err)
	}
	if len(again.Events) != len(doc.Events) || again.Year != 2025 {
		t.Errorf("cached document differs: %d events", len(again.Events))
	}

	opts.Mode = render.ModeStack
	if _, hit, _ := r.GenerateLayoutWithCacheInfo(ctx, testCalendars(), opts); hit {
		t.Error("mode change should miss the cache")
	}
	opts.Refresh = true
	if _, hit, _ := r.GenerateLayoutWithCacheInfo(ctx, testCalendars(), opts); hit {
		t.Error("refresh should bypass the cache")
	}

	if _, hit, err := r.RenderWithCacheInfo(ctx, doc, opts); err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	arts, hit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil || !hit {
		t.Fatalf("second render: hit=%v err=%v", hit, err)
	}
	if !strings.HasPrefix(string(arts[render.FormatSVG]), "<svg") {
		t.Error("cached svg artifact is not svg")
	}

	if hooks.hits["layout"] != 1 || hooks.hits["artifact"] != 2 {
		t.Errorf("hits = %v", hooks.hits)
	}
	if hooks.sets["layout"] != 3 || hooks.sets["artifact"] != 2 {
		t.Errorf("sets = %v", hooks.sets)
	}
	if len(hooks.stages) != 3 {
		t.Errorf("layout stages = %v, want 3 computations", hooks.stages)
	}
}

const jsonCalendar = `{"kind":"calendar#events","items":[
  {"id":"bday","summary":"Anna birthday","start":{"date":"2025-04-02"},"end":{"date":"2025-04-03"}}
]}`

const icsCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\nUID:standup\r\nSUMMARY:Standup\r\n" +
	"DTSTART:20250106T090000Z\r\nDTEND:20250106T091500Z\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=3\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "home.json")
	icsPath := filepath.Join(dir, "work.ics")
	if err := os.WriteFile(jsonPath, []byte(jsonCalendar), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(icsPath, []byte(icsCalendar), 0o600); err != nil {
		t.Fatal(err)
	}

	specs := []config.Calendar{
		{ID: "home", Name: "Home", Path: jsonPath},
		{ID: "work", Name: "Work", Color: "#10b981", Path: icsPath},
	}
	r := NewRunner(nil, nil, nil)
	out, err := r.Execute(context.Background(), specs, Options{
		Year:    2025,
		Rules:   testRules(),
		Formats: []string{render.FormatJSON, render.FormatSVG},
		Popups:  true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.Stats.Calendars != 2 || out.Stats.RawEvents != 4 {
		t.Errorf("stats = %+v", out.Stats)
	}
	if len(out.Document.Events) != 4 {
		t.Errorf("events = %d, want 4", len(out.Document.Events))
	}
	if out.CacheInfo.LayoutHit || out.CacheInfo.RenderHit {
		t.Error("null cache reported a hit")
	}
	if len(out.Artifacts[render.FormatJSON]) == 0 || !strings.Contains(string(out.Artifacts[render.FormatSVG]), `class="popup"`) {
		t.Error("artifacts missing")
	}
}

func TestLoadMissingCalendar(t *testing.T) {
	specs := []config.Calendar{{ID: "gone", Path: filepath.Join(t.TempDir(), "gone.ics")}}
	_, err := Load(context.Background(), specs, Options{Year: 2025})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
	if err == nil || !strings.Contains(err.Error(), "calendar gone") {
		t.Errorf("err = %v, want calendar context", err)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Year = 2025
	cfg.Display.Mode = render.ModeStack
	cfg.Categories = append(cfg.Categories, category.Rule{ID: "broken", Label: "Broken", Color: "nope", Keywords: []string{"x"}})

	opts, errs := FromConfig(cfg)
	if len(errs) != 1 {
		t.Errorf("rule errors = %v, want 1", errs)
	}
	if opts.Year != 2025 || opts.Mode != render.ModeStack || len(opts.Rules) != 3 {
		t.Errorf("opts = %+v", opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ValidateAndSetDefaults: %v", err)
	}
}

func civilDate(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}
