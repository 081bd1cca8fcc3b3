package answer

import (
	"context"

	"github.com/tilemart/tilequery/internal/domain"
)

// CatalogSource yields the process-wide catalog. Load is idempotent and
// returns an empty catalog, not an error, when the source is unavailable.
type CatalogSource interface {
	Load(ctx context.Context) domain.Catalog
}

// Ranker narrows the catalog into a candidate set and ranks it against the
// query text.
type Ranker interface {
	Narrow(catalog domain.Catalog, hints domain.Hints) domain.Catalog
	Rank(candidates domain.Catalog, query string, hints domain.Hints) []domain.RankedTile
}

// Oracle is the external generative-language collaborator, invoked only for
// out-of-domain queries. instruction is the system-level redirect prompt.
type Oracle interface {
	Ask(ctx context.Context, prompt, instruction string) (string, error)
}
