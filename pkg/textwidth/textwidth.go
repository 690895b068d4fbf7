// Package textwidth measures strings in terminal display cells.
//
// East Asian wide runes occupy two cells and combining marks none, so byte or
// rune counts cannot be used for alignment. Everything here defers to
// go-runewidth with East Asian ambiguous runes treated as narrow, which keeps
// results independent of the host locale.
package textwidth

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

var cond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// String returns the display width of s.
func String(s string) int { return cond.StringWidth(s) }

// Rune returns the display width of r.
func Rune(r rune) int { return cond.RuneWidth(r) }

// Max returns the widest display width among lines.
func Max(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, String(l))
	}
	return w
}

// Truncate shortens s to at most w cells. When s is shortened, tail is
// appended within the budget. A tail wider than w is itself clipped.
func Truncate(s string, w int, tail string) string {
	if w <= 0 {
		return ""
	}
	if String(s) <= w {
		return s
	}
	if String(tail) >= w {
		return cond.Truncate(tail, w, "")
	}
	return cond.Truncate(s, w, tail)
}

// Clip shortens s to at most w cells without a tail.
func Clip(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return cond.Truncate(s, w, "")
}

// Lines splits s on explicit line breaks.
func Lines(s string) []string { return strings.Split(s, "\n") }

// Skip drops the first n cells of s. A wide rune straddling the cut is
// replaced by a space so the rest of the line keeps its columns.
func Skip(s string, n int) string {
	if n <= 0 {
		return s
	}
	w := 0
	for i, r := range s {
		if w >= n {
			return s[i:]
		}
		w += Rune(r)
		if w > n {
			return strings.Repeat(" ", w-n) + s[i+len(string(r)):]
		}
	}
	return ""
}
