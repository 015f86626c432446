package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter draws card centred over base, clipped to width×height.
// Columns of base outside the card's painted span stay visible.
func overlayCenter(base, card string, width, height int) string {
	if width <= 0 || height <= 0 {
		return base
	}
	baseLines := canvasLines(base, width, height)
	top := canvasLines(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card), width, height)

	out := make([]string, height)
	for i := range out {
		start, end, ok := paintedSpan(top[i], width)
		if !ok {
			out[i] = baseLines[i]
			continue
		}
		left := ansi.Truncate(baseLines[i], start, "")
		mid := ansi.Truncate(skipColumns(top[i], start), end-start, "")
		right := skipColumns(baseLines[i], end)
		out[i] = padColumns(left+mid+right, width)
	}
	return strings.Join(out, "\n")
}

// paintedSpan finds the first and last non-blank columns of line.
func paintedSpan(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	start = len(trimmed) - len(strings.TrimLeft(trimmed, " "))
	end = len(trimmed)
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

func canvasLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padColumns(lines[i], width)
	}
	return lines
}

func skipColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return strings.TrimPrefix(s, ansi.Truncate(s, cols, ""))
}

func padColumns(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
