// Package sales implements the time-based read-through cache in front of the
// remote sales-data API.
package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tilemart/tilequery/internal/domain"
	"github.com/tilemart/tilequery/internal/metrics"
)

const cacheKey = "tilequery:sales_data"

// KV is the consumer interface for the cache store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Fetcher retrieves fresh sales records from the remote API.
type Fetcher interface {
	FetchSales(ctx context.Context) ([]json.RawMessage, error)
}

// Payload is the cached sales envelope.
type Payload struct {
	Data        []json.RawMessage `json:"data"`
	LastUpdated time.Time         `json:"last_updated"`
}

// Service is a single-key read-through cache over the sales API.
type Service struct {
	kv      KV
	fetcher Fetcher
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a sales-data service.
func New(kv KV, fetcher Fetcher, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{kv: kv, fetcher: fetcher, ttl: ttl, logger: logger, now: time.Now}
}

// Get returns sales data from the cache, falling through to the remote API
// on a miss. Cache store failures degrade to a direct fetch.
func (s *Service) Get(ctx context.Context) (Payload, error) {
	if data, err := s.kv.Get(ctx, cacheKey); err == nil {
		var p Payload
		if err := json.Unmarshal(data, &p); err == nil {
			metrics.SalesCacheTotal.WithLabelValues("hit").Inc()
			return p, nil
		}
		s.logger.Warn("Discarding malformed sales cache entry", zap.Error(err))
	}

	metrics.SalesCacheTotal.WithLabelValues("miss").Inc()
	return s.Refresh(ctx)
}

// Refresh fetches fresh data from the remote API and rewrites the cache
// entry. A cache write failure is logged, not surfaced: the fresh data is
// still returned.
func (s *Service) Refresh(ctx context.Context) (Payload, error) {
	records, err := s.fetcher.FetchSales(ctx)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", domain.ErrSalesDataUnavailable, err)
	}

	p := Payload{Data: records, LastUpdated: s.now().UTC()}

	data, err := json.Marshal(p)
	if err != nil {
		return Payload{}, fmt.Errorf("marshal sales payload: %w", err)
	}
	if err := s.kv.SetWithTTL(ctx, cacheKey, data, s.ttl); err != nil {
		s.logger.Warn("Failed to write sales cache", zap.Error(err))
	} else {
		s.logger.Info("Sales cache updated", zap.Int("records", len(records)))
	}

	return p, nil
}

// StartRefresher refreshes the cache on a fixed schedule until the context
// is cancelled. Refresh failures are logged and retried on the next tick.
func (s *Service) StartRefresher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Refresh(ctx); err != nil {
					s.logger.Error("Scheduled sales refresh failed", zap.Error(err))
				}
			}
		}
	}()
}
