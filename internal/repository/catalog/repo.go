// Package catalog loads and holds the in-memory product table.
package catalog

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/tilemart/tilequery/internal/domain"
)

// Repository owns the process-wide catalog. The catalog is loaded at most
// once per process lifetime and is read-only afterwards, so concurrent
// readers need no further coordination.
type Repository struct {
	path   string
	logger *zap.Logger

	mu      sync.Mutex
	catalog domain.Catalog
}

// New creates a catalog repository backed by a CSV file.
func New(path string, logger *zap.Logger) *Repository {
	return &Repository{path: path, logger: logger}
}

// Load returns the catalog, reading the source file on first use.
// Idempotent: once a non-empty catalog is loaded, subsequent calls return it
// without re-reading the source. A read failure yields an empty catalog,
// never an error; downstream components treat an empty catalog as a valid,
// trivially empty state.
func (r *Repository) Load(_ context.Context) domain.Catalog {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.catalog.Empty() {
		return r.catalog
	}

	f, err := os.Open(r.path)
	if err != nil {
		r.logger.Warn("Failed to open catalog source", zap.String("path", r.path), zap.Error(err))
		return nil
	}
	defer f.Close()

	products, err := parseProducts(f)
	if err != nil {
		r.logger.Warn("Failed to parse catalog source", zap.String("path", r.path), zap.Error(err))
		return nil
	}

	r.catalog = products
	r.logger.Info("Catalog loaded",
		zap.String("path", r.path),
		zap.Int("products", len(products)),
	)
	return r.catalog
}
