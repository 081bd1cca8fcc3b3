// Package catalog implements the structured query path: size listings,
// conjunctive attribute filters and name lookups.
package catalog

import (
	"context"
	"strings"

	"github.com/tilemart/tilequery/internal/domain"
)

// Source yields the process-wide catalog.
type Source interface {
	Load(ctx context.Context) domain.Catalog
}

// Filter is a conjunctive structured filter. Empty fields impose no
// constraint. Category and Size match exactly (case-insensitive); the rest
// match as substrings.
type Filter struct {
	Category string
	Size     string
	Material string
	Finish   string
	Design   string
}

// Service answers structured catalog queries.
type Service struct {
	source Source
}

// New creates a structured catalog query service.
func New(source Source) *Service {
	return &Service{source: source}
}

// Sizes returns the distinct non-empty sizes available for a category,
// in catalog order.
func (s *Service) Sizes(ctx context.Context, category string) ([]string, error) {
	catalog := s.source.Load(ctx)
	if catalog.Empty() {
		return nil, domain.ErrCatalogUnavailable
	}

	category = strings.ToLower(strings.TrimSpace(category))
	seen := make(map[string]struct{})
	var sizes []string
	for _, p := range catalog {
		if p.Category != category || p.Size == "" {
			continue
		}
		if _, ok := seen[p.Size]; ok {
			continue
		}
		seen[p.Size] = struct{}{}
		sizes = append(sizes, p.Size)
	}
	return sizes, nil
}

// Tiles returns the products matching the structured filter, preserving
// catalog order.
func (s *Service) Tiles(ctx context.Context, f Filter) ([]domain.Product, error) {
	catalog := s.source.Load(ctx)
	if catalog.Empty() {
		return nil, domain.ErrCatalogUnavailable
	}

	var tiles []domain.Product
	for _, p := range catalog {
		if f.matches(p) {
			tiles = append(tiles, p)
		}
	}
	if len(tiles) == 0 {
		return nil, domain.ErrNoTilesMatch
	}
	return tiles, nil
}

// LookupByName returns the first product whose name contains the given text
// or is mentioned within it, case-insensitively. The second direction lets a
// full question carrying a product name resolve to that product.
func (s *Service) LookupByName(ctx context.Context, text string) (domain.Product, error) {
	catalog := s.source.Load(ctx)
	if catalog.Empty() {
		return domain.Product{}, domain.ErrCatalogUnavailable
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return domain.Product{}, domain.ErrTileNotFound
	}
	for _, p := range catalog {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			continue
		}
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrTileNotFound
}

// MentionsKnownName reports whether the text contains any catalog product
// name. Used to route mixed free-text requests toward the name lookup.
func (s *Service) MentionsKnownName(ctx context.Context, text string) bool {
	catalog := s.source.Load(ctx)
	lower := strings.ToLower(text)
	for _, p := range catalog {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name != "" && strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func (f Filter) matches(p domain.Product) bool {
	if f.Category != "" && !strings.EqualFold(strings.TrimSpace(f.Category), p.Category) {
		return false
	}
	if f.Size != "" && !strings.EqualFold(strings.TrimSpace(f.Size), p.Size) {
		return false
	}
	if f.Material != "" && !containsFold(p.Material, f.Material) {
		return false
	}
	if f.Finish != "" && !containsFold(p.Finish, f.Finish) {
		return false
	}
	if f.Design != "" && !containsFold(p.DesignTypes, f.Design) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
