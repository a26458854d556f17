package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/matzehuels/yeargrid/pkg/event"
	"github.com/matzehuels/yeargrid/pkg/layout"
	"github.com/matzehuels/yeargrid/pkg/layout/stack"
	"github.com/matzehuels/yeargrid/pkg/layout/tooltip"
)

const (
	marginLeft   = 40.0
	marginTop    = 24.0
	marginRight  = 8.0
	monthGap     = 6.0
	dotRadius    = 3.0
	dotPitch     = 8.0
	legendHeight = 28.0
	popupWidth   = 220.0
	popupLine    = 14.0
)

const gridCSS = `
    .cell { fill: #fafafa; stroke: #e5e5e5; stroke-width: 0.5; }
    .cell.weekend { fill: #f1f5f9; }
    .label { font-family: system-ui, sans-serif; fill: #525252; }
    .bar-text, .stack-text { font-family: system-ui, sans-serif; fill: #171717; }
    .event { cursor: pointer; }
    .popup { pointer-events: none; }
    .popup text { font-family: system-ui, sans-serif; font-size: 11px; fill: #171717; }`

// popupJS positions a popup to the right of the pointer, else left, else
// centered, and clamps it into the view box. Vertically it tries below,
// then above.
const popupJS = `
    const svg = document.querySelector('svg');
    const vb = svg.viewBox.baseVal;
    const pad = %.1f, off = %.1f;
    function axis(pos, size, lo, hi) {
      if (hi - pos >= size + off) return pos + off;
      if (pos - lo >= size + off) return pos - off - size;
      return pos - size / 2;
    }
    document.querySelectorAll('.event').forEach(el => {
      const popup = document.querySelector('.popup[data-for="' + el.dataset.event + '"]');
      if (!popup) return;
      el.addEventListener('mousemove', ev => {
        const pt = svg.createSVGPoint();
        pt.x = ev.clientX; pt.y = ev.clientY;
        const p = pt.matrixTransform(svg.getScreenCTM().inverse());
        const box = popup.getBBox();
        let x = axis(p.x, box.width, vb.x, vb.x + vb.width);
        let y = axis(p.y, box.height, vb.y, vb.y + vb.height);
        x = Math.max(vb.x + pad, Math.min(x, vb.x + vb.width - box.width - pad));
        y = Math.max(vb.y + pad, Math.min(y, vb.y + vb.height - box.height - pad));
        popup.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
        popup.setAttribute('visibility', 'visible');
      });
      el.addEventListener('mouseleave', () => popup.setAttribute('visibility', 'hidden'));
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	popups  bool
	legend  bool
	padding float64
	offset  float64
}

// WithPopups adds a hover popup for every drawn event.
func WithPopups() SVGOption { return func(r *svgRenderer) { r.popups = true } }

// WithoutLegend omits the category legend below the grid.
func WithoutLegend() SVGOption { return func(r *svgRenderer) { r.legend = false } }

// WithPopupMargins sets the popup padding and pointer offset.
func WithPopupMargins(padding, offset float64) SVGOption {
	return func(r *svgRenderer) { r.padding, r.offset = padding, offset }
}

// grid holds the derived geometry of one render.
type grid struct {
	m        stack.Metrics
	barH     float64
	monthTop [12]float64
	width    float64
	height   float64
}

func newGrid(doc *Document, legend bool) grid {
	g := grid{m: doc.Metrics, barH: doc.Metrics.LineHeight + doc.Metrics.Gap}
	y := marginTop
	for i := range 12 {
		g.monthTop[i] = y
		y += float64(doc.MonthRows[i])*g.barH + g.m.CellHeight + monthGap
	}
	g.width = marginLeft + 31*g.m.CellWidth + marginRight
	g.height = y
	if legend {
		g.height += legendHeight
	}
	return g
}

// cellOrigin returns the top-left corner of the day cell.
func (g grid) cellOrigin(month, day, rows int) (x, y float64) {
	x = marginLeft + float64(day-1)*g.m.CellWidth
	y = g.monthTop[month] + float64(rows)*g.barH
	return x, y
}

// RenderSVG draws the document as a year grid.
func RenderSVG(doc *Document, opts ...SVGOption) []byte {
	r := svgRenderer{legend: true, padding: tooltip.DefaultPadding, offset: tooltip.DefaultOffset}
	for _, opt := range opts {
		opt(&r)
	}
	if doc.Metrics.CellWidth <= 0 {
		d := *doc
		d.Metrics, _ = stack.MetricsFor(doc.Density)
		doc = &d
	}

	g := newGrid(doc, r.legend)
	events := doc.EventIndex()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		g.width, g.height, g.width, g.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", gridCSS)

	renderHeader(&buf, doc, g)
	renderCells(&buf, doc, g)
	renderBars(&buf, doc, g, events)
	renderDays(&buf, doc, g, events)
	if r.legend {
		renderLegend(&buf, doc, g)
	}

	if r.popups {
		for i := range doc.Events {
			renderPopup(&buf, &doc.Events[i], doc.Categories)
		}
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA["+popupJS+"\n  ]]></script>\n", r.padding, r.offset)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderHeader(buf *bytes.Buffer, doc *Document, g grid) {
	for day := 1; day <= 31; day++ {
		x := marginLeft + (float64(day)-0.5)*g.m.CellWidth
		fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-size="9" text-anchor="middle">%d</text>`+"\n",
			x, marginTop-8, day)
	}
	for m := range 12 {
		fmt.Fprintf(buf, `  <text class="label" x="4" y="%.1f" font-size="11">%s</text>`+"\n",
			g.monthTop[m]+12, time.Month(m+1).String()[:3])
	}
}

func renderCells(buf *bytes.Buffer, doc *Document, g grid) {
	for m := range 12 {
		rows := doc.MonthRows[m]
		top := g.monthTop[m]
		height := float64(rows)*g.barH + g.m.CellHeight
		for day := 1; day <= layout.DaysIn(doc.Year, time.Month(m+1)); day++ {
			x, _ := g.cellOrigin(m, day, 0)
			class := "cell"
			wd := civil.Date{Year: doc.Year, Month: time.Month(m + 1), Day: day}.In(time.UTC).Weekday()
			if wd == time.Saturday || wd == time.Sunday {
				class += " weekend"
			}
			fmt.Fprintf(buf, `  <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
				class, x, top, g.m.CellWidth, height)
		}
	}
}

func renderBars(buf *bytes.Buffer, doc *Document, g grid, events map[string]*event.Event) {
	for _, b := range doc.Bars {
		ev, ok := events[b.EventID]
		if !ok {
			continue
		}
		x, y := g.cellOrigin(b.Month, b.StartDay, b.Row)
		w := float64(b.EndDay-b.StartDay+1)*g.m.CellWidth - 2
		fmt.Fprintf(buf, `  <g class="event" data-event="%s"><title>%s</title>`, EscapeXML(ev.ID), EscapeXML(ev.Title))
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="%s"/>`,
			x+1, y+g.m.Gap, w, g.m.LineHeight, EscapeXML(ev.Color))
		if cols := int(w / g.m.CharWidth); cols > 1 {
			fmt.Fprintf(buf, `<text class="bar-text" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`,
				x+3, y+g.m.Gap+g.m.LineHeight*0.8, g.m.LineHeight*0.8, EscapeXML(Truncate(ev.Title, cols-1)))
		}
		buf.WriteString("</g>\n")
	}
}

func renderDays(buf *bytes.Buffer, doc *Document, g grid, events map[string]*event.Event) {
	for _, day := range doc.Days {
		if day.Date.Year != doc.Year || len(day.Events) == 0 {
			continue
		}
		m := int(day.Date.Month) - 1
		x, y := g.cellOrigin(m, day.Date.Day, doc.MonthRows[m])
		if doc.Mode == ModeStack && len(day.Lines) == len(day.Events) {
			renderStack(buf, day, x, y, g, events)
			continue
		}
		renderDots(buf, day, x, y, g, events)
	}
}

func renderDots(buf *bytes.Buffer, day Day, x, y float64, g grid, events map[string]*event.Event) {
	perRow := max(1, int((g.m.CellWidth-2)/dotPitch))
	for i, id := range day.Events {
		ev, ok := events[id]
		if !ok {
			continue
		}
		cx := x + 1 + dotPitch/2 + float64(i%perRow)*dotPitch
		cy := y + 4 + dotPitch/2 + float64(i/perRow)*dotPitch
		if cy+dotRadius > y+g.m.CellHeight {
			break
		}
		fmt.Fprintf(buf, `  <circle class="event" data-event="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"><title>%s</title></circle>`+"\n",
			EscapeXML(ev.ID), cx, cy, dotRadius, EscapeXML(ev.Color), EscapeXML(ev.Title))
	}
}

func renderStack(buf *bytes.Buffer, day Day, x, y float64, g grid, events map[string]*event.Event) {
	cols := g.m.Columns()
	size := g.m.LineHeight * 0.85
	top := y + 1
	for i, id := range day.Events {
		ev, ok := events[id]
		if !ok {
			continue
		}
		lines := WrapTitle(ev.Title, cols, day.Lines[i])
		h := float64(len(lines)) * g.m.LineHeight
		if top+h > y+g.m.CellHeight+0.01 {
			break
		}
		fmt.Fprintf(buf, `  <g class="event" data-event="%s"><title>%s</title>`, EscapeXML(ev.ID), EscapeXML(ev.Title))
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="2" height="%.1f" fill="%s"/>`, x+1, top, h, EscapeXML(ev.Color))
		for j, line := range lines {
			fmt.Fprintf(buf, `<text class="stack-text" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`,
				x+4, top+float64(j)*g.m.LineHeight+size, size, EscapeXML(line))
		}
		buf.WriteString("</g>\n")
		top += h + g.m.Gap
	}
}

func renderLegend(buf *bytes.Buffer, doc *Document, g grid) {
	y := g.height - legendHeight + 14
	x := marginLeft
	for _, c := range doc.Categories {
		label := fmt.Sprintf("%s (%d)", c.Label, c.Count)
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="10" height="10" rx="2" fill="%s"/>`+"\n", x, y-9, EscapeXML(c.Color))
		fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-size="11">%s</text>`+"\n", x+14, y, EscapeXML(label))
		x += 14 + float64(len(label))*6.2 + 16
	}
}

func renderPopup(buf *bytes.Buffer, ev *event.Event, cats []Category) {
	lines := PopupLines(ev, cats)
	h := float64(len(lines))*popupLine + 8
	fmt.Fprintf(buf, `  <g class="popup" data-for="%s" visibility="hidden">`, EscapeXML(ev.ID))
	fmt.Fprintf(buf, `<rect width="%.1f" height="%.1f" rx="4" fill="#ffffff" stroke="%s"/>`, popupWidth, h, EscapeXML(ev.Color))
	for i, line := range lines {
		weight := ""
		if i == 0 {
			weight = ` font-weight="bold"`
		}
		fmt.Fprintf(buf, `<text x="8" y="%.1f"%s>%s</text>`, 4+float64(i+1)*popupLine-3, weight, EscapeXML(Truncate(line, 36)))
	}
	buf.WriteString("</g>\n")
}

// PopupLines returns the text shown in an event's popup: title, dates,
// times for timed events, category and the optional calendar and location.
func PopupLines(ev *event.Event, cats []Category) []string {
	lines := []string{ev.Title, DateRange(ev)}
	if !ev.AllDay {
		lines[1] += "  " + clock(ev.StartMinutes) + "–" + clock(ev.EndMinutes)
	}
	label := ev.Category
	for _, c := range cats {
		if c.ID == ev.Category {
			label = c.Label
			break
		}
	}
	lines = append(lines, label)
	if ev.CalendarName != "" {
		lines = append(lines, ev.CalendarName)
	}
	if loc := strings.TrimSpace(ev.Location); loc != "" {
		lines = append(lines, loc)
	}
	return lines
}

// DateRange formats an event's inclusive dates, e.g. "Jan 30 – Feb 2, 2025".
func DateRange(ev *event.Event) string {
	s, e := ev.StartDate, ev.EndDate
	short := func(d civil.Date) string { return d.Month.String()[:3] + " " + fmt.Sprint(d.Day) }
	switch {
	case s == e:
		return fmt.Sprintf("%s, %d", short(s), s.Year)
	case s.Year == e.Year:
		return fmt.Sprintf("%s – %s, %d", short(s), short(e), e.Year)
	default:
		return fmt.Sprintf("%s, %d – %s, %d", short(s), s.Year, short(e), e.Year)
	}
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
