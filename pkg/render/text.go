package render

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Truncate shortens s to at most cols display columns, marking the cut
// with an ellipsis.
func Truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	return runewidth.Truncate(s, cols, ellipsis)
}

// WrapTitle word-wraps title into lines of at most cols display columns and
// keeps the first maxLines of them. Overlong words are hard-split. When text
// is cut, the last kept line ends with an ellipsis.
func WrapTitle(title string, cols, maxLines int) []string {
	if cols <= 0 || maxLines <= 0 {
		return nil
	}
	var (
		lines []string
		cur   strings.Builder
		width int
	)
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			width = 0
		}
	}
	for _, word := range strings.Fields(title) {
		w := runewidth.StringWidth(word)
		if width > 0 && width+1+w <= cols {
			cur.WriteByte(' ')
			cur.WriteString(word)
			width += 1 + w
			continue
		}
		flush()
		for w > cols {
			head := runewidth.Truncate(word, cols, "")
			if head == "" {
				break
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		cur.WriteString(word)
		width = w
	}
	flush()

	if len(lines) <= maxLines {
		return lines
	}
	kept := lines[:maxLines]
	last := kept[maxLines-1]
	if runewidth.StringWidth(last)+runewidth.StringWidth(ellipsis) > cols {
		last = runewidth.Truncate(last, cols-runewidth.StringWidth(ellipsis), "")
	}
	kept[maxLines-1] = last + ellipsis
	return kept
}
