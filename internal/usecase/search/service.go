// Package search implements the two-stage lexical-filter-plus-similarity
// ranking over the tile catalog.
package search

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tilemart/tilequery/internal/domain"
	"github.com/tilemart/tilequery/internal/metrics"
)

// Config exposes the ranking heuristics as tunable constants. The candidate
// minimum, similarity threshold and result cap were observed to vary between
// iterations of the product; keeping them here lets each be tuned
// independently.
type Config struct {
	MinCandidates     int
	MaxResults        int
	MinScore          float64
	FallbackCount     int
	DescriptionWeight int
	VocabLimit        int
	NGramMax          int
}

// DefaultConfig returns the production heuristics.
func DefaultConfig() Config {
	return Config{
		MinCandidates:     10,
		MaxResults:        50,
		MinScore:          0.05,
		FallbackCount:     10,
		DescriptionWeight: 3,
		VocabLimit:        5000,
		NGramMax:          3,
	}
}

// Service ranks candidate products against a free-text query.
type Service struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a ranking service.
func New(cfg Config, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, logger: logger}
}

// Config returns the active heuristics.
func (s *Service) Config() Config { return s.cfg }

// Narrow applies hints over the catalog with the configured candidate minimum.
func (s *Service) Narrow(catalog domain.Catalog, hints domain.Hints) domain.Catalog {
	return Narrow(catalog, hints, s.cfg.MinCandidates)
}

// Rank vectorizes the candidate set and the query into a shared TF-IDF space,
// scores every candidate by cosine similarity and returns a truncated,
// thresholded, descending ranking. Ties preserve catalog order.
//
// When vectorization fails or no candidate clears the similarity threshold,
// Rank degrades to an explicit rule instead of erroring: the lowest-priced
// candidates when a price ceiling hint is present, candidates matching the
// application hint when a location hint is present, or an empty result.
func (s *Service) Rank(candidates domain.Catalog, query string, hints domain.Hints) []domain.RankedTile {
	if candidates.Empty() {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.RankingDuration.Observe(time.Since(start).Seconds())
	}()

	docs := make([]string, len(candidates))
	for i, p := range candidates {
		docs[i] = s.buildDocument(p)
	}

	vec := NewVectorizer(s.cfg.NGramMax, s.cfg.VocabLimit)
	if err := vec.Fit(docs); err != nil {
		s.logger.Debug("Vectorizer fit failed, using rule-based fallback", zap.Error(err))
		return s.fallback(candidates, hints)
	}

	queryVector := vec.Transform(query)

	ranked := make([]domain.RankedTile, 0, len(candidates))
	for i, p := range candidates {
		score := cosineSimilarity(vec.Transform(docs[i]), queryVector)
		if score < s.cfg.MinScore {
			continue
		}
		ranked = append(ranked, domain.RankedTile{Product: p, Score: score})
	}

	// Stable sort: equal scores keep catalog order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > s.cfg.MaxResults {
		ranked = ranked[:s.cfg.MaxResults]
	}

	ranked = s.postFilter(ranked, hints)

	if len(ranked) == 0 {
		return s.fallback(candidates, hints)
	}
	return ranked
}

// buildDocument concatenates the clean text fields of a product into its
// composite search document. The description is repeated to bias scoring
// toward descriptive matches.
func (s *Service) buildDocument(p domain.Product) string {
	parts := make([]string, 0, s.cfg.DescriptionWeight+5)
	desc := clean(p.Description)
	for i := 0; i < s.cfg.DescriptionWeight; i++ {
		parts = append(parts, desc)
	}
	parts = append(parts,
		clean(p.Name),
		clean(p.Material),
		clean(p.Applications),
		clean(p.DesignTypes),
		clean(p.Finish),
	)
	return strings.Join(parts, " ")
}

// postFilter narrows the ranked set on feature flags after scoring. These
// rely on substrings the term weighting may under-emphasize, so they run as
// boolean checks on the already-ranked results.
func (s *Service) postFilter(ranked []domain.RankedTile, hints domain.Hints) []domain.RankedTile {
	if hints.SlipResistant {
		ranked = keep(ranked, isSlipResistant)
	}
	if hints.Application == "corridor" || hints.Application == "hallway" {
		ranked = keep(ranked, func(p domain.Product) bool {
			return containsFold(p.Applications, "corridor") || containsFold(p.Applications, "hallway")
		})
	}
	return ranked
}

func isSlipResistant(p domain.Product) bool {
	text := strings.ToLower(p.Description + " " + p.DesignTypes + " " + p.Applications + " " + p.Name)
	for _, syn := range []string{"anti-skid", "anti skid", "antiskid", "slip resistant", "slip-resistant", "non slip", "non-slip"} {
		if strings.Contains(text, syn) {
			return true
		}
	}
	return false
}

func keep(ranked []domain.RankedTile, pred func(domain.Product) bool) []domain.RankedTile {
	out := ranked[:0]
	for _, r := range ranked {
		if pred(r.Product) {
			out = append(out, r)
		}
	}
	return out
}

// fallback is the rule-based degradation used when similarity scoring cannot
// produce results. Entries carry the floor score so downstream consumers see
// a consistent score range. Never errors; may return an empty list.
func (s *Service) fallback(candidates domain.Catalog, hints domain.Hints) []domain.RankedTile {
	switch {
	case hints.PriceCeiling != nil:
		priced := make(domain.Catalog, 0, len(candidates))
		for _, p := range candidates {
			if p.PriceKnown {
				priced = append(priced, p)
			}
		}
		sort.SliceStable(priced, func(i, j int) bool {
			return priced[i].Price < priced[j].Price
		})
		if len(priced) > s.cfg.FallbackCount {
			priced = priced[:s.cfg.FallbackCount]
		}
		return s.asRanked(priced)

	case hints.Application != "":
		matched := make(domain.Catalog, 0, len(candidates))
		for _, p := range candidates {
			if containsFold(p.Applications, hints.Application) {
				matched = append(matched, p)
			}
		}
		if len(matched) > s.cfg.FallbackCount {
			matched = matched[:s.cfg.FallbackCount]
		}
		return s.asRanked(matched)

	default:
		return nil
	}
}

func (s *Service) asRanked(products domain.Catalog) []domain.RankedTile {
	if len(products) == 0 {
		return nil
	}
	ranked := make([]domain.RankedTile, len(products))
	for i, p := range products {
		ranked[i] = domain.RankedTile{Product: p, Score: s.cfg.MinScore}
	}
	return ranked
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
