package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderPanel draws a rounded box of exactly w×h cells with title set into
// the top border and lines inside it. Lines that do not fit are clipped; a
// box too small to have an interior renders as blank space.
func renderPanel(title string, lines []string, w, h int) string {
	if w < 2 || h < 2 {
		return blank(w, h)
	}
	b := lipgloss.RoundedBorder()
	inner := w - 2

	top := borderStyle.Render(strings.Repeat(b.Top, inner))
	if title != "" && inner > 4 {
		t := ansi.Truncate(title, inner-4, "…")
		rest := inner - 3 - lipgloss.Width(t)
		top = borderStyle.Render(b.Top+" ") + titleStyle.Render(t) + borderStyle.Render(" "+strings.Repeat(b.Top, rest))
	}

	rows := make([]string, 0, h)
	rows = append(rows, borderStyle.Render(b.TopLeft)+top+borderStyle.Render(b.TopRight))
	side := borderStyle.Render(b.Left)
	for i := 0; i < h-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, side+fit(line, inner, " ")+borderStyle.Render(b.Right))
	}
	rows = append(rows, borderStyle.Render(b.BottomLeft+strings.Repeat(b.Bottom, inner)+b.BottomRight))
	return strings.Join(rows, "\n")
}

// fit clips s to w cells and pads it with pad (a single-cell string).
func fit(s string, w int, pad string) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) > w {
		s = ansi.Truncate(s, w, "")
	}
	if n := w - lipgloss.Width(s); n > 0 {
		s += strings.Repeat(pad, n)
	}
	return s
}

// fitBlock clips or pads a multi-line block to exactly w×h.
func fitBlock(s string, w, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	out := make([]string, h)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = fit(line, w, " ")
	}
	return strings.Join(out, "\n")
}

func blank(w, h int) string {
	if w < 0 {
		w = 0
	}
	if h <= 0 {
		return ""
	}
	row := strings.Repeat(" ", w)
	rows := make([]string, h)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}
