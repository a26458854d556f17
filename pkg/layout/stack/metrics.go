package stack

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Density selects a cell geometry preset.
type Density string

const (
	DensityCompact     Density = "compact"
	DensityNormal      Density = "normal"
	DensityComfortable Density = "comfortable"
)

// Metrics is the pixel geometry of one day cell. CharWidth is the average
// advance of one display column.
type Metrics struct {
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	LineHeight float64 `json:"line_height"`
	Gap        float64 `json:"gap"`
	CharWidth  float64 `json:"char_width"`
}

var presets = map[Density]Metrics{
	DensityCompact:     {CellWidth: 28, CellHeight: 36, LineHeight: 9, Gap: 1, CharWidth: 4.2},
	DensityNormal:      {CellWidth: 36, CellHeight: 48, LineHeight: 10, Gap: 2, CharWidth: 4.8},
	DensityComfortable: {CellWidth: 48, CellHeight: 72, LineHeight: 12, Gap: 2, CharWidth: 5.4},
}

// MetricsFor returns the preset for d. Unknown densities get the normal
// preset and ok=false.
func MetricsFor(d Density) (m Metrics, ok bool) {
	m, ok = presets[d]
	if !ok {
		return presets[DensityNormal], false
	}
	return m, true
}

// Densities lists the known presets from tightest to loosest.
func Densities() []Density {
	return []Density{DensityCompact, DensityNormal, DensityComfortable}
}

// Budget is the total number of lines that fit in a cell holding n events,
// with a gap between consecutive events.
func Budget(m Metrics, n int) int {
	if m.LineHeight <= 0 {
		return 0
	}
	avail := m.CellHeight - float64(max(0, n-1))*m.Gap
	if avail <= 0 {
		return 0
	}
	return int(math.Floor(avail / m.LineHeight))
}

// Columns is the number of display columns a line can hold.
func (m Metrics) Columns() int {
	if m.CharWidth <= 0 {
		return 1
	}
	return max(1, int(math.Floor(m.CellWidth/m.CharWidth)))
}

// EstimateLines word-wraps title at the cell width and returns the line
// count, at least one. Words wider than a line are split across lines.
func EstimateLines(title string, m Metrics) int {
	cols := m.Columns()
	lines, cur := 0, 0
	for _, word := range strings.Fields(title) {
		w := runewidth.StringWidth(word)
		switch {
		case cur == 0:
		case cur+1+w <= cols:
			cur += 1 + w
			continue
		default:
			lines++
		}
		lines += (w - 1) / cols
		cur = (w-1)%cols + 1
	}
	if cur > 0 {
		lines++
	}
	return max(1, lines)
}
