package search

import (
	"strings"

	"github.com/tilemart/tilequery/internal/domain"
)

// Narrow applies the hints as a conjunction of boolean predicates over the
// catalog. All predicates are case-insensitive and missing-value safe: a row
// lacking the field a hint constrains does not match that hint.
//
// If the conjunction yields fewer than minCandidates rows, the filter is
// discarded and the full catalog becomes the candidate set. Over-constrained
// queries would otherwise starve the ranker; trading precision for recall
// here is intentional.
func Narrow(catalog domain.Catalog, hints domain.Hints, minCandidates int) domain.Catalog {
	if hints.Empty() || catalog.Empty() {
		return catalog
	}

	candidates := make(domain.Catalog, 0, len(catalog))
	for _, p := range catalog {
		if matches(p, hints) {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) < minCandidates {
		return catalog
	}
	return candidates
}

func matches(p domain.Product, hints domain.Hints) bool {
	if hints.PriceCeiling != nil {
		if !p.PriceKnown || p.Price > *hints.PriceCeiling {
			return false
		}
	}
	if hints.Size != nil && !sizeMatches(p.Size, hints.Size) {
		return false
	}
	if hints.Material != "" && !containsFold(p.Material, hints.Material) {
		return false
	}
	if hints.Application != "" && !containsFold(p.Applications, hints.Application) {
		return false
	}
	if hints.Finish != "" && !containsFold(p.Finish, hints.Finish) {
		return false
	}
	// Color vocabularies are matched against the name field; catalog rows
	// carry no dedicated color column.
	if hints.Color != "" && !containsFold(p.Name, hints.Color) {
		return false
	}
	return true
}

func sizeMatches(size string, hint *domain.SizeHint) bool {
	for _, variant := range hint.Variants() {
		if containsFold(size, variant) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
