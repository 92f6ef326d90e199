// Package ui holds rendering helpers shared by birdeye's views.
package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/birdeye/internal/styles"
)

// Dim strips the styling from s and renders it muted, for content behind
// an overlay. Faint (SGR 2) does not combine reliably with existing colors
// in most terminals, so the original colors are dropped.
func Dim(s string) string {
	if s == "" {
		return ""
	}
	return styles.Muted.Render(ansi.Strip(s))
}

// Width returns the widest line in lines, ignoring escape sequences.
func Width(lines []string) int {
	w := 0
	for _, line := range lines {
		if lw := ansi.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

// splice replaces the cells [x, x+width) of bg with box. bg is dimmed on
// both sides and padded with spaces when it ends before x.
func splice(bg, box string, x, width int) string {
	plain := ansi.Strip(bg)
	plainWidth := ansi.StringWidth(plain)

	var b strings.Builder
	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		b.WriteString(Dim(left))
		if lw := ansi.StringWidth(left); lw < x {
			b.WriteString(strings.Repeat(" ", x-lw))
		}
	}
	b.WriteString(box)
	if bw := ansi.StringWidth(box); bw < width {
		b.WriteString(strings.Repeat(" ", width-bw))
	}
	if end := x + width; plainWidth > end {
		b.WriteString(Dim(ansi.Cut(plain, end, plainWidth)))
	}
	return b.String()
}

// Overlay centers box over a dimmed background of width x height cells.
// The result always has height lines; a box taller or wider than the
// screen is pinned to the top left corner.
func Overlay(background, box string, width, height int) string {
	bg := strings.Split(background, "\n")
	for len(bg) < height {
		bg = append(bg, "")
	}
	boxLines := strings.Split(box, "\n")
	boxWidth := Width(boxLines)

	x := max((width-boxWidth)/2, 0)
	y := max((height-len(boxLines))/2, 0)

	out := make([]string, height)
	for row := 0; row < height; row++ {
		if i := row - y; i >= 0 && i < len(boxLines) {
			out[row] = splice(bg[row], boxLines[i], x, boxWidth)
			continue
		}
		out[row] = Dim(bg[row])
	}
	return strings.Join(out, "\n")
}
