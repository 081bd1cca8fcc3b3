package search

import (
	"fmt"
	"testing"

	"github.com/tilemart/tilequery/internal/domain"
)

func ceilingHint(v float64) domain.Hints {
	return domain.Hints{PriceCeiling: &v}
}

// wideCatalog returns n ceramic bathroom products plus one of everything
// else, so conjunctions can clear the candidate minimum.
func wideCatalog(n int) domain.Catalog {
	catalog := make(domain.Catalog, 0, n+2)
	for i := 0; i < n; i++ {
		catalog = append(catalog, domain.Product{
			ID:           fmt.Sprintf("tile-%04d-aria", i),
			Name:         fmt.Sprintf("Aria %d", i),
			Material:     "Ceramic",
			Finish:       "Matt",
			Size:         "300x450",
			Applications: "bathroom floor",
			Price:        float64(50 + i*10),
			PriceKnown:   true,
		})
	}
	catalog = append(catalog,
		domain.Product{
			ID:           "tile-9998-lagos",
			Name:         "Lagos Gloss",
			Material:     "Porcelain",
			Finish:       "Gloss",
			Size:         "600x600",
			Applications: "living wall",
			Price:        150,
			PriceKnown:   true,
		},
		domain.Product{
			ID:       "tile-9999-mystery",
			Name:     "Mystery Slab",
			Material: "Granite",
		},
	)
	return catalog
}

func TestNarrow_EmptyHintsPassthrough(t *testing.T) {
	catalog := wideCatalog(12)
	got := Narrow(catalog, domain.Hints{}, 10)
	if len(got) != len(catalog) {
		t.Fatalf("expected passthrough of %d products, got %d", len(catalog), len(got))
	}
}

func TestNarrow_Material(t *testing.T) {
	got := Narrow(wideCatalog(12), domain.Hints{Material: "ceramic"}, 10)
	if len(got) != 12 {
		t.Fatalf("expected 12 ceramic candidates, got %d", len(got))
	}
	for _, p := range got {
		if p.Material != "Ceramic" {
			t.Errorf("unexpected candidate %s", p.ID)
		}
	}
}

func TestNarrow_Conjunction(t *testing.T) {
	got := Narrow(wideCatalog(12), domain.Hints{Material: "ceramic", Finish: "matt", Application: "bathroom"}, 10)
	if len(got) != 12 {
		t.Fatalf("expected 12 candidates for the conjunction, got %d", len(got))
	}
}

func TestNarrow_BelowMinimumDiscardsFilter(t *testing.T) {
	catalog := wideCatalog(12)
	// Only one porcelain product exists, so the filter is discarded.
	got := Narrow(catalog, domain.Hints{Material: "porcelain"}, 10)
	if len(got) != len(catalog) {
		t.Fatalf("expected full catalog of %d, got %d", len(catalog), len(got))
	}
}

func TestNarrow_PriceCeiling(t *testing.T) {
	catalog := wideCatalog(12)
	ceiling := 140.0
	got := Narrow(catalog, ceilingHint(ceiling), 10)

	if len(got) == len(catalog) {
		t.Fatal("ceiling filter should have narrowed the catalog")
	}
	for _, p := range got {
		if !p.PriceKnown {
			t.Errorf("unknown-price product %s passed a price ceiling", p.ID)
		}
		if p.Price > ceiling {
			t.Errorf("product %s at %v exceeds ceiling %v", p.ID, p.Price, ceiling)
		}
	}
}

func TestNarrow_SizeVariants(t *testing.T) {
	catalog := wideCatalog(12)
	for _, hint := range []domain.SizeHint{{Width: 300, Height: 450}, {Width: 450, Height: 300}} {
		h := hint
		got := Narrow(catalog, domain.Hints{Size: &h}, 10)
		if len(got) != 12 {
			t.Errorf("size %dx%d: expected 12 candidates, got %d", h.Width, h.Height, len(got))
		}
	}
}

func TestNarrow_ColorAgainstName(t *testing.T) {
	catalog := domain.Catalog{}
	for i := 0; i < 10; i++ {
		catalog = append(catalog, domain.Product{
			ID:   fmt.Sprintf("tile-%04d-beige-haze", i),
			Name: fmt.Sprintf("Beige Haze %d", i),
		})
	}
	catalog = append(catalog, domain.Product{ID: "tile-0100-noir", Name: "Noir"})

	got := Narrow(catalog, domain.Hints{Color: "beige"}, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 beige candidates, got %d", len(got))
	}
}
