package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestWidth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty", []string{}, 0},
		{"single", []string{"hello"}, 5},
		{"multiple", []string{"hi", "hello", "hey"}, 5},
		{"with ansi", []string{"\x1b[31mred\x1b[0m"}, 3},
		{"wide runes", []string{"日本"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Width(tt.lines); got != tt.want {
				t.Errorf("Width() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name  string
		bg    string
		box   string
		x     int
		width int
		want  string // plain text of the result
	}{
		{"middle", "abcdefghij", "XY", 3, 2, "abcXYfghij"},
		{"left edge", "abcdef", "XY", 0, 2, "XYcdef"},
		{"short background", "ab", "XY", 5, 2, "ab   XY"},
		{"short box line is padded", "abcdefgh", "X", 2, 3, "abX  fgh"},
		{"styled background", "\x1b[31mabcdef\x1b[0m", "XY", 2, 2, "abXYef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(splice(tt.bg, tt.box, tt.x, tt.width))
			if got != tt.want {
				t.Errorf("splice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOverlay(t *testing.T) {
	bg := "line1\nline2\nline3\nline4\nline5"
	got := Overlay(bg, "[M]", 10, 5)

	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	if plain := ansi.Strip(lines[2]); !strings.Contains(plain, "[M]") {
		t.Errorf("middle line %q should hold the box", plain)
	}
	if plain := ansi.Strip(lines[0]); plain != "line1" {
		t.Errorf("first line = %q, want dimmed background", plain)
	}
}

func TestOverlay_PadsShortBackground(t *testing.T) {
	got := Overlay("only", "box", 10, 4)
	if n := len(strings.Split(got, "\n")); n != 4 {
		t.Errorf("got %d lines, want 4", n)
	}
}

func TestOverlay_BoxLargerThanScreen(t *testing.T) {
	box := strings.Repeat("wide box line\n", 6)
	got := Overlay("bg", strings.TrimSuffix(box, "\n"), 5, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(ansi.Strip(lines[0]), "wide") {
		t.Errorf("oversized box should be pinned to the top left, got %q", ansi.Strip(lines[0]))
	}
}

func TestDim(t *testing.T) {
	if Dim("") != "" {
		t.Error("Dim of empty string should stay empty")
	}
	if got := ansi.Strip(Dim("\x1b[1mbold\x1b[0m")); got != "bold" {
		t.Errorf("Dim kept text %q, want bold", got)
	}
}
