package engine_test

import (
	"testing"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphenated", "EA2-A", "EA2A"},
		{"lowercase with trailing space", "ea2a ", "EA2A"},
		{"leading space", " EA2A", "EA2A"},
		{"already canonical", "EA2A", "EA2A"},
		{"multiple hyphens", "a-b-c", "ABC"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.NormalizeCode(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCodeIdempotent(t *testing.T) {
	inputs := []string{"EA2-A", " ea2a ", "", "A-35-01", "warehouse-7"}
	for _, in := range inputs {
		once := engine.NormalizeCode(in)
		twice := engine.NormalizeCode(once)
		if once != twice {
			t.Errorf("NormalizeCode not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestLocationEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact", "PAD-07", "PAD-07", true},
		{"case insensitive", "pad-07", "PAD-07", true},
		{"surrounding whitespace", " PAD-07 ", "PAD-07", true},
		{"hyphens significant", "PAD07", "PAD-07", false},
		{"different codes", "PAD-07", "PAD-08", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.LocationEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("LocationEqual(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
