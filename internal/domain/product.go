package domain

import "strings"

// Product is a single tile SKU loaded from the catalog source.
// PriceKnown distinguishes a missing or unparseable price from a real zero;
// a missing price is never silently coerced to 0.
type Product struct {
	ID             string
	Name           string
	Description    string
	Material       string
	Finish         string
	Size           string
	Price          float64
	PriceKnown     bool
	PriceUnit      string
	DesignTypes    string
	Applications   string
	QtyPerBox      float64
	AreaPerBox     float64
	AreaUnit       string
	Faces          int
	Origin         string
	LayingPatterns string
	Category       string
	URL            string
	ImageURL       string
}

// HasPrice reports whether the product carries a usable positive price.
func (p Product) HasPrice() bool { return p.PriceKnown && p.Price > 0 }

// Catalog is the ordered in-memory collection of products. It is built once
// at startup and treated as read-only afterwards; query paths work on
// filtered copies, never on the catalog itself.
type Catalog []Product

// Empty reports whether the catalog holds no products.
func (c Catalog) Empty() bool { return len(c) == 0 }

// Categories returns the distinct lowercase categories in catalog order.
func (c Catalog) Categories() []string {
	seen := make(map[string]struct{}, 8)
	var out []string
	for _, p := range c {
		cat := strings.ToLower(strings.TrimSpace(p.Category))
		if cat == "" {
			continue
		}
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}
