package domain

import "errors"

var (
	// ErrCatalogUnavailable signals that the catalog failed to load or is empty.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrTileNotFound signals a name lookup with no matching product.
	ErrTileNotFound = errors.New("tile not found")
	// ErrNoTilesMatch signals a structured filter with no matching products.
	ErrNoTilesMatch = errors.New("no tiles match the criteria")
	// ErrOracleUnavailable signals a failure of the external language model.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrSalesDataUnavailable signals that sales data could be served neither
	// from cache nor from the remote API.
	ErrSalesDataUnavailable = errors.New("sales data unavailable")
)
