package answer

import (
	"strings"
	"testing"

	"github.com/tilemart/tilequery/internal/domain"
)

func TestFormat_Empty(t *testing.T) {
	if got := Format(nil); got != NoMatchesMessage {
		t.Fatalf("Format(nil) = %q, want %q", got, NoMatchesMessage)
	}
}

func TestFormat(t *testing.T) {
	results := []domain.RankedTile{
		{
			Product: domain.Product{
				Name:         "Aria Matt",
				Material:     "Ceramic",
				Size:         "300x450",
				Price:        85,
				PriceKnown:   true,
				Description:  "glazed ceramic tile",
				Applications: "bathroom floor",
			},
			Score: 0.42,
		},
		{
			Product: domain.Product{Name: "Mystery Slab"},
			Score:   0.05,
		},
	}

	got := Format(results)

	for _, want := range []string{
		"Found 2 matching tile(s):",
		"1. Aria Matt (relevance 42%)",
		"Ceramic | 300x450 | ₹85 per sq ft",
		"glazed ceramic tile",
		"suited for: bathroom floor",
		"2. Mystery Slab (relevance 5%)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// An unpriced product never renders a price line.
	if strings.Count(got, "₹") != 1 {
		t.Errorf("expected exactly one price marker:\n%s", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("output must not end with a newline")
	}
}

func TestFormat_Deterministic(t *testing.T) {
	results := []domain.RankedTile{
		{Product: domain.Product{Name: "Twin", Description: "speckled"}, Score: 0.5},
	}
	if Format(results) != Format(results) {
		t.Fatal("identical input produced different output")
	}
}

func TestExcerptOf(t *testing.T) {
	if got := excerptOf("  short  "); got != "short" {
		t.Errorf("excerptOf short = %q", got)
	}

	long := strings.Repeat("абв", 100)
	got := excerptOf(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("long excerpt not truncated: %q", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != excerptLimit {
		t.Errorf("excerpt length = %d runes, want %d", n, excerptLimit)
	}
}
