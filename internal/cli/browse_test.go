package cli

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/yeargrid/pkg/event"
	"github.com/matzehuels/yeargrid/pkg/layout/tooltip"
	"github.com/matzehuels/yeargrid/pkg/render"
)

func day(m time.Month, d int) civil.Date {
	return civil.Date{Year: 2025, Month: m, Day: d}
}

func browseDoc() *render.Document {
	bday := day(time.April, 2)
	return &render.Document{
		Year: 2025,
		Mode: render.ModeDots,
		Categories: []render.Category{
			{ID: "birthdays", Label: "Birthdays", Color: "#ec4899", Count: 1},
		},
		Events: []event.Event{{
			ID:           "home:bday",
			Title:        "Anna birthday",
			StartDate:    bday,
			EndDate:      bday,
			DurationDays: 1,
			AllDay:       true,
			Category:     "birthdays",
			Color:        "#ec4899",
		}},
		Days: []render.Day{{Date: bday, Events: []string{"home:bday"}, All: []string{"home:bday"}}},
	}
}

func update(t *testing.T, m YearModel, msg tea.Msg) (YearModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	ym, ok := next.(YearModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return ym, cmd
}

func TestNewYearModelCursor(t *testing.T) {
	m := NewYearModel(browseDoc())
	if m.Cursor != day(time.April, 2) {
		t.Errorf("cursor = %s, want first day with events", m.Cursor)
	}

	empty := NewYearModel(&render.Document{Year: 2025})
	if empty.Cursor != day(time.January, 1) {
		t.Errorf("cursor = %s, want Jan 1", empty.Cursor)
	}
}

func TestYearModelNavigation(t *testing.T) {
	tests := []struct {
		name  string
		start civil.Date
		key   tea.KeyMsg
		want  civil.Date
	}{
		{"right", day(time.April, 2), tea.KeyMsg{Type: tea.KeyRight}, day(time.April, 3)},
		{"left wraps month", day(time.April, 1), tea.KeyMsg{Type: tea.KeyLeft}, day(time.March, 31)},
		{"up clamps day", day(time.March, 31), tea.KeyMsg{Type: tea.KeyUp}, day(time.February, 28)},
		{"down", day(time.April, 2), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, day(time.May, 2)},
		{"stays in year", day(time.January, 1), tea.KeyMsg{Type: tea.KeyLeft}, day(time.January, 1)},
		{"stays in year down", day(time.December, 5), tea.KeyMsg{Type: tea.KeyDown}, day(time.December, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewYearModel(browseDoc())
			m.Cursor = tt.start
			m, _ = update(t, m, tt.key)
			if m.Cursor != tt.want {
				t.Errorf("cursor = %s, want %s", m.Cursor, tt.want)
			}
		})
	}
}

func TestYearModelPopup(t *testing.T) {
	m := NewYearModel(browseDoc())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.Open {
		t.Fatal("enter did not open the popup")
	}
	if m.Popup.Phase != tooltip.Measured {
		t.Errorf("phase = %s, want measured", m.Popup.Phase)
	}
	p, size := m.Popup.Placement, m.Popup.Tooltip
	if p.Left < popupPadding || p.Left+size.W > 120-popupPadding {
		t.Errorf("popup x %.0f..%.0f outside viewport", p.Left, p.Left+size.W)
	}
	if p.Top < popupPadding || p.Top+size.H > 30-popupPadding {
		t.Errorf("popup y %.0f..%.0f outside viewport", p.Top, p.Top+size.H)
	}
	if view := m.View(); !strings.Contains(view, "Anna birthday") || !strings.Contains(view, "Birthdays") {
		t.Errorf("view lacks popup content:\n%s", view)
	}

	origin := m.Popup.Origin
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Popup.Origin == origin || m.Popup.Phase != tooltip.Measured {
		t.Errorf("popup did not follow the cursor: %+v", m.Popup)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Open || cmd != nil {
		t.Error("esc should close the popup without quitting")
	}
	if _, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Error("esc with no popup should quit")
	}
}

func TestYearModelPopupBeforeResize(t *testing.T) {
	m := NewYearModel(browseDoc())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Popup.Phase != tooltip.Provisional {
		t.Errorf("phase = %s, want provisional without a viewport", m.Popup.Phase)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.Popup.Phase != tooltip.Measured {
		t.Errorf("phase = %s, want measured after resize", m.Popup.Phase)
	}
}

func TestYearModelMouse(t *testing.T) {
	m := NewYearModel(browseDoc())
	m.Cursor = day(time.January, 1)
	target := m.cellOrigin(day(time.April, 2))

	m, _ = update(t, m, tea.MouseMsg{
		X:      int(target.X),
		Y:      int(target.Y),
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	if m.Cursor != day(time.April, 2) || !m.Open {
		t.Errorf("click: cursor %s open %v", m.Cursor, m.Open)
	}

	m, _ = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Open {
		t.Error("click outside the grid should close the popup")
	}
}

func TestCellAt(t *testing.T) {
	m := NewYearModel(browseDoc())
	for _, d := range []civil.Date{day(time.January, 1), day(time.February, 28), day(time.December, 31)} {
		o := m.cellOrigin(d)
		if got, ok := m.cellAt(int(o.X), int(o.Y)); !ok || got != d {
			t.Errorf("cellAt(cellOrigin(%s)) = %s, %v", d, got, ok)
		}
	}
	feb30 := m.cellOrigin(civil.Date{Year: 2025, Month: time.February, Day: 30})
	if _, ok := m.cellAt(int(feb30.X), int(feb30.Y)); ok {
		t.Error("Feb 30 should not map to a date")
	}
}

func TestOverlay(t *testing.T) {
	tests := []struct {
		name      string
		base, box string
		left, top int
		want      string
	}{
		{"inside", "abcdef\nghijkl", "XY", 2, 1, "abcdef\nghXYkl"},
		{"below base", "ab", "XY", 0, 2, "ab\n\nXY"},
		{"multi line", "aaaa\nbbbb\ncccc", "12\n34", 1, 1, "aaaa\nb12b\nc34c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlay(tt.base, tt.box, tt.left, tt.top); got != tt.want {
				t.Errorf("overlay = %q, want %q", got, tt.want)
			}
		})
	}
}
