// Package util provides text helpers shared by the TUI and the CLI tables.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Ellipsis is appended to truncated cells.
const Ellipsis = "…"

// Truncate shortens s to maxWidth visual columns, ending in an ellipsis when
// anything was cut. ANSI escape codes and wide characters are measured the
// way the terminal draws them.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return Ellipsis
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// PadRight truncates or pads s with spaces to exactly width columns.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// PadLeft truncates or left-pads s to exactly width columns. Amounts use it
// so decimal points line up.
func PadLeft(s string, width int) string {
	s = Truncate(s, width)
	if gap := width - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// Label turns an API enum value such as "credit_card" into "Credit Card".
func Label(value string) string {
	return titleCaser.String(strings.ReplaceAll(value, "_", " "))
}
