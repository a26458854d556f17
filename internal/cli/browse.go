package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/matzehuels/yeargrid/pkg/event"
	"github.com/matzehuels/yeargrid/pkg/layout"
	"github.com/matzehuels/yeargrid/pkg/layout/tooltip"
	"github.com/matzehuels/yeargrid/pkg/pipeline"
	"github.com/matzehuels/yeargrid/pkg/render"
)

// Grid geometry in terminal cells.
const (
	gridLabelWidth = 5
	gridCellWidth  = 3
	gridHeaderRows = 4

	// Popup margins in cells.
	popupPadding = 1
	popupOffset  = 1

	popupMaxEvents = 6
)

var (
	gridCursorStyle = lipgloss.NewStyle().Reverse(true)
	gridEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	popupStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [layout.json]",
		Short: "Explore a year layout in the terminal",
		Long: `Explore a year layout in the terminal.

Move the cursor with the arrow keys (or h/j/k/l), press enter or click a
day to open a popup with its events, esc to close it and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.browseDocument(cmd.Context(), args, &flags)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewYearModel(doc),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// browseDocument reads a layout file or computes one from the config.
func (c *CLI) browseDocument(ctx context.Context, args []string, flags *layoutFlags) (*render.Document, error) {
	if len(args) == 1 {
		return readLayoutFile(args[0])
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := flags.options(c, cfg)

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading calendars...")
	spinner.Start()
	defer spinner.Stop()

	calendars, err := pipeline.Load(ctx, cfg.Calendars, opts)
	if err != nil {
		return nil, err
	}
	spinner.Update(fmt.Sprintf("Laying out %d...", opts.Year))
	doc, _, err := runner.GenerateLayoutWithCacheInfo(ctx, calendars, opts)
	return doc, err
}

// =============================================================================
// YearModel - Interactive year grid
// =============================================================================

// YearModel is the bubbletea model for the year grid browser.
type YearModel struct {
	Doc    *render.Document
	Cursor civil.Date
	Width  int
	Height int

	// Popup is the open day popup; Open reports whether it is shown.
	Popup tooltip.State
	Open  bool

	events map[string]*event.Event
	colors map[string]string
}

// NewYearModel creates a model with the cursor on the first day that has
// events, or on January 1.
func NewYearModel(doc *render.Document) YearModel {
	m := YearModel{
		Doc:    doc,
		Cursor: civil.Date{Year: doc.Year, Month: time.January, Day: 1},
		events: doc.EventIndex(),
		colors: make(map[string]string, len(doc.Categories)),
	}
	for _, cat := range doc.Categories {
		m.colors[cat.ID] = cat.Color
	}
	for _, day := range doc.Days {
		if day.Date.Year == doc.Year {
			m.Cursor = day.Date
			break
		}
	}
	return m
}

func (m YearModel) Init() tea.Cmd {
	return nil
}

func (m YearModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Open {
				return m, tea.Quit
			}
			m.Open = false
		case "left", "h":
			m = m.moveTo(m.Cursor.AddDays(-1))
		case "right", "l":
			m = m.moveTo(m.Cursor.AddDays(1))
		case "up", "k":
			m = m.moveTo(shiftMonth(m.Cursor, -1))
		case "down", "j":
			m = m.moveTo(shiftMonth(m.Cursor, 1))
		case "home", "g":
			m = m.moveTo(civil.Date{Year: m.Doc.Year, Month: time.January, Day: 1})
		case "end", "G":
			m = m.moveTo(civil.Date{Year: m.Doc.Year, Month: time.December, Day: 31})
		case "enter", " ":
			if m.Open {
				m.Open = false
			} else {
				m = m.openPopup()
			}
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		d, ok := m.cellAt(msg.X, msg.Y)
		if !ok {
			m.Open = false
			return m, nil
		}
		m.Cursor = d
		m = m.openPopup()
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		if m.Open {
			m.Popup = m.Popup.Apply(m.measure())
		}
	}
	return m, nil
}

// moveTo sets the cursor if d lies in the document's year; an open popup
// follows it.
func (m YearModel) moveTo(d civil.Date) YearModel {
	if d.Year != m.Doc.Year {
		return m
	}
	m.Cursor = d
	if m.Open {
		m.Popup = m.Popup.Moved(m.cellOrigin(d)).Apply(m.measure())
	}
	return m
}

func (m YearModel) openPopup() YearModel {
	m.Popup = tooltip.Open(m.cellOrigin(m.Cursor), popupPadding, popupOffset).Apply(m.measure())
	m.Open = true
	return m
}

// measure reports the rendered popup size and the terminal size.
func (m YearModel) measure() tooltip.Measurement {
	box := m.popupView()
	return tooltip.Measurement{
		Tooltip:  tooltip.Size{W: float64(lipgloss.Width(box)), H: float64(lipgloss.Height(box))},
		Viewport: tooltip.Size{W: float64(m.Width), H: float64(m.Height)},
	}
}

// cellOrigin is the screen position of d's cell.
func (m YearModel) cellOrigin(d civil.Date) tooltip.Point {
	return tooltip.Point{
		X: float64(gridLabelWidth + (d.Day-1)*gridCellWidth + 1),
		Y: float64(gridHeaderRows + int(d.Month) - 1),
	}
}

// cellAt maps a screen position back to a date.
func (m YearModel) cellAt(x, y int) (civil.Date, bool) {
	month := y - gridHeaderRows + 1
	if month < 1 || month > 12 || x < gridLabelWidth {
		return civil.Date{}, false
	}
	d := civil.Date{Year: m.Doc.Year, Month: time.Month(month), Day: (x-gridLabelWidth)/gridCellWidth + 1}
	return d, d.IsValid()
}

// dayEvents lists the events on d: range events first, then timed ones.
func (m YearModel) dayEvents(d civil.Date) []*event.Event {
	day := m.Doc.Day(d)
	out := make([]*event.Event, 0, len(day.All)+len(day.Timed))
	for _, ids := range [][]string{day.All, day.Timed} {
		for _, id := range ids {
			if ev, ok := m.events[id]; ok {
				out = append(out, ev)
			}
		}
	}
	return out
}

// =============================================================================
// Views
// =============================================================================

func (m YearModel) View() string {
	base := m.gridView()
	if !m.Open {
		return base
	}
	p := m.Popup.Placement
	return overlay(base, m.popupView(), int(math.Round(p.Left)), int(math.Round(p.Top)))
}

func (m YearModel) gridView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s %d", appName, m.Doc.Year)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %s", plural(len(m.Doc.Events), "event"), plural(len(m.Doc.Bars), "bar"))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→/↑/↓ move  ⏎ details  esc close  q quit"))
	b.WriteString("\n\n")

	b.WriteString(strings.Repeat(" ", gridLabelWidth))
	for d := 1; d <= 31; d++ {
		label := ""
		if d == 1 || d%5 == 0 {
			label = fmt.Sprint(d)
		}
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-*s", gridCellWidth, label)))
	}
	b.WriteString("\n")

	for month := time.January; month <= time.December; month++ {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%-*s", gridLabelWidth, month.String()[:3])))
		for d := 1; d <= 31; d++ {
			date := civil.Date{Year: m.Doc.Year, Month: month, Day: d}
			if !date.IsValid() {
				b.WriteString(strings.Repeat(" ", gridCellWidth))
				continue
			}
			b.WriteString(m.cellView(date))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var legend []string
	for _, cat := range m.Doc.Categories {
		legend = append(legend, swatch(cat.Color)+" "+fmt.Sprintf("%s (%d)", cat.Label, cat.Count))
	}
	b.WriteString(strings.Join(legend, "  "))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render(m.Cursor.In(time.UTC).Format("Mon Jan 2, 2006")))
	b.WriteString(StyleDim.Render("  " + plural(len(m.dayEvents(m.Cursor)), "event")))

	return b.String()
}

// cellView draws one day: a bar segment for range events, a dot or a count
// for single-day ones.
func (m YearModel) cellView(d civil.Date) string {
	events := m.dayEvents(d)
	glyph, style := "·", gridEmptyStyle
	if len(events) > 0 {
		first := events[0]
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.color(first)))
		switch {
		case first.MultiDay:
			glyph = "━"
		case len(events) == 1:
			glyph = "●"
		case len(events) < 10:
			glyph = fmt.Sprint(len(events))
		default:
			glyph = "+"
		}
	}
	cell := " " + glyph + " "
	if d == m.Cursor {
		return gridCursorStyle.Inherit(style).Render(cell)
	}
	return style.Render(cell)
}

func (m YearModel) color(ev *event.Event) string {
	if c, ok := m.colors[ev.Category]; ok {
		return c
	}
	return ev.Color
}

// popupView renders the cursor day's events as a bordered box.
func (m YearModel) popupView() string {
	events := m.dayEvents(m.Cursor)
	var lines []string
	lines = append(lines, StyleTitle.Render(m.Cursor.In(time.UTC).Format("Monday, January 2")))
	if len(events) == 0 {
		lines = append(lines, StyleDim.Render("No events"))
	}
	for i, ev := range events {
		if i == popupMaxEvents {
			lines = append(lines, StyleDim.Render(fmt.Sprintf("+%d more", len(events)-i)))
			break
		}
		info := render.PopupLines(ev, m.Doc.Categories)
		lines = append(lines, swatch(m.color(ev))+" "+StyleValue.Bold(true).Render(render.Truncate(info[0], 40)))
		for _, l := range info[1:] {
			lines = append(lines, "  "+StyleDim.Render(render.Truncate(l, 40)))
		}
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}

// overlay draws box over base with its top-left corner at (left, top).
// Parts of the box outside the base's rows are appended as new rows.
func overlay(base, box string, left, top int) string {
	rows := strings.Split(base, "\n")
	left, top = max(0, left), max(0, top)
	for i, line := range strings.Split(box, "\n") {
		row := top + i
		for len(rows) <= row {
			rows = append(rows, "")
		}
		under, w := rows[row], ansi.StringWidth(rows[row])
		prefix := ansi.Cut(under, 0, left)
		if n := ansi.StringWidth(prefix); n < left {
			prefix += strings.Repeat(" ", left-n)
		}
		rows[row] = prefix + line + ansi.Cut(under, left+ansi.StringWidth(line), w)
	}
	return strings.Join(rows, "\n")
}

// shiftMonth moves d by n months, clamping the day to the target month.
func shiftMonth(d civil.Date, n int) civil.Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return civil.Date{Year: first.Year(), Month: first.Month(), Day: min(d.Day, layout.DaysIn(first.Year(), first.Month()))}
}
