package styles

import (
	"strings"
	"testing"
)

func TestTypeColor(t *testing.T) {
	tests := []struct {
		transactionType string
		expected        string
	}{
		{"income", "#10B981"},
		{"expense", "#F87171"},
		{"transfer", "#60A5FA"},
		{"unknown", "#9CA3AF"}, // Should fall back to MutedColor
	}

	for _, tt := range tests {
		t.Run(tt.transactionType, func(t *testing.T) {
			got := TypeColor(tt.transactionType)
			if string(got) != tt.expected {
				t.Errorf("TypeColor(%q) = %q, want %q", tt.transactionType, got, tt.expected)
			}
		})
	}
}

func TestTypeSign(t *testing.T) {
	tests := map[string]string{"income": "+", "expense": "-", "transfer": ""}
	for typ, want := range tests {
		if got := TypeSign(typ); got != want {
			t.Errorf("TypeSign(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestValidColor(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#007bff", true},
		{"#FFF", true},
		{"007bff", false},
		{"#12345", false},
		{"red", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidColor(tt.color); got != tt.want {
			t.Errorf("ValidColor(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}

func TestSwatch(t *testing.T) {
	for _, color := range []string{"#007bff", "nonsense"} {
		if got := Swatch(color); !strings.Contains(got, "■") {
			t.Errorf("Swatch(%q) = %q, want a block", color, got)
		}
	}
}
