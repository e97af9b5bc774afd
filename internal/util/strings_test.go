package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{name: "fits", input: "Groceries", maxWidth: 20, want: "Groceries"},
		{name: "exact", input: "Groceries", maxWidth: 9, want: "Groceries"},
		{name: "cut", input: "Weekly groceries run", maxWidth: 8, want: "Weekly …"},
		{name: "width one", input: "Rent", maxWidth: 1, want: "…"},
		{name: "zero width", input: "Rent", maxWidth: 0, want: ""},
		{name: "wide characters", input: "日本語のテキスト", maxWidth: 5, want: "日本…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
			if w := lipgloss.Width(got); w > tt.maxWidth {
				t.Errorf("width %d exceeds %d", w, tt.maxWidth)
			}
		})
	}
}

func TestTruncate_KeepsStyledWidth(t *testing.T) {
	styled := "\x1b[31mSalary payment\x1b[0m"
	got := Truncate(styled, 6)
	if w := lipgloss.Width(got); w != 6 {
		t.Errorf("width = %d, want 6 (got %q)", w, got)
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		pad   func(string, int) string
		input string
		width int
		want  string
	}{
		{name: "right pads", pad: PadRight, input: "Cash", width: 6, want: "Cash  "},
		{name: "right truncates", pad: PadRight, input: "Checking", width: 5, want: "Chec…"},
		{name: "left pads", pad: PadLeft, input: "$9.50", width: 8, want: "   $9.50"},
		{name: "left exact", pad: PadLeft, input: "$9.50", width: 5, want: "$9.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pad(tt.input, tt.width); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"credit_card": "Credit Card",
		"checking":    "Checking",
		"income":      "Income",
		"":            "",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
