// Package answer orchestrates free-text question answering: domain routing,
// hint extraction, candidate filtering, ranking and formatting.
package answer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tilemart/tilequery/internal/domain"
	"github.com/tilemart/tilequery/internal/metrics"
	"github.com/tilemart/tilequery/internal/usecase/interpret"
)

const (
	// UnavailableMessage is returned when the catalog failed to load or is empty.
	UnavailableMessage = "Sorry, the tile catalog is currently unavailable."
	// RedirectMessage is returned when an out-of-domain query cannot reach the oracle.
	RedirectMessage = "I can help with tiles, flooring, designs, materials, sizes and prices. " +
		"What would you like to know about our tile collection?"

	redirectInstruction = "You are a tile store assistant. The user asked about something " +
		"outside the tile domain. Answer briefly if the question is trivial, then steer the " +
		"conversation back to tiles, flooring, designs, materials, sizes and prices. " +
		"Keep the reply to 2-3 sentences."
)

// domainKeywords classify a query as tile-related.
var domainKeywords = []string{
	"tile", "tiles", "flooring", "ceramic", "porcelain",
	"design", "material", "price", "size", "finish",
}

// budgetOptions are the price buckets suggested when a query mentions price.
var budgetOptions = []string{"Budget (Below ₹100)", "Premium (Above ₹100)"}

// Answer is the response to a free-text query.
type Answer struct {
	Text             string
	Tiles            []domain.RankedTile
	SuggestedOptions []string
}

// Service answers free-text queries over the catalog.
type Service struct {
	source CatalogSource
	ranker Ranker
	oracle Oracle
	logger *zap.Logger
}

// New creates an answer service. oracle may be nil; out-of-domain queries
// then receive the static redirect message.
func New(source CatalogSource, ranker Ranker, oracle Oracle, logger *zap.Logger) *Service {
	return &Service{source: source, ranker: ranker, oracle: oracle, logger: logger}
}

// Answer routes the query and produces a response. Every path returns a
// value: catalog unavailability, unrecognizable queries and oracle failures
// all degrade to fixed messages rather than errors.
func (s *Service) Answer(ctx context.Context, query string) Answer {
	catalog := s.source.Load(ctx)
	if catalog.Empty() {
		metrics.QueriesTotal.WithLabelValues("unavailable").Inc()
		return Answer{Text: UnavailableMessage}
	}

	if !inDomain(query) {
		metrics.QueriesTotal.WithLabelValues("oracle").Inc()
		return Answer{Text: s.askOracle(ctx, query)}
	}

	metrics.QueriesTotal.WithLabelValues("search").Inc()

	hints := interpret.Interpret(query)
	candidates := s.ranker.Narrow(catalog, hints)
	ranked := s.ranker.Rank(candidates, query, hints)

	s.logger.Debug("Query answered",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(ranked)),
	)

	return Answer{
		Text:             Format(ranked),
		Tiles:            ranked,
		SuggestedOptions: suggest(query, catalog),
	}
}

func (s *Service) askOracle(ctx context.Context, query string) string {
	if s.oracle == nil {
		return RedirectMessage
	}
	text, err := s.oracle.Ask(ctx, query, redirectInstruction)
	if err != nil {
		s.logger.Warn("Oracle request failed", zap.Error(err))
		return RedirectMessage
	}
	return text
}

// inDomain reports whether the query mentions any tile-domain keyword.
func inDomain(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range domainKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// suggest mirrors the follow-up options of the original assistant: category
// names when the query asks about categories, price buckets when it asks
// about prices.
func suggest(query string, catalog domain.Catalog) []string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "category"):
		cats := catalog.Categories()
		if len(cats) > 3 {
			cats = cats[:3]
		}
		return cats
	case strings.Contains(q, "price"):
		return budgetOptions
	default:
		return nil
	}
}
