package health

import (
	"context"

	"github.com/tilemart/tilequery/internal/domain"
)

// CatalogSource yields the catalog for the loaded/non-empty check.
type CatalogSource interface {
	Load(ctx context.Context) domain.Catalog
}

// DBPinger checks cache store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// OracleChecker checks oracle provider availability.
type OracleChecker interface {
	HealthCheck(ctx context.Context) error
}
