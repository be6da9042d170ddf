package cache

import (
	"context"
	"errors"
	"time"

	"forumhub/internal/domain"
)

// ErrCacheMiss is returned when a query has no cached entry.
var ErrCacheMiss = errors.New("cache miss")

// SearchCache caches home/search results keyed by query. Implementations own
// the key layout so Flush always covers what Set stored.
type SearchCache interface {
	Get(ctx context.Context, query string) (*domain.HomeResponse, error)
	Set(ctx context.Context, query string, result *domain.HomeResponse, ttl time.Duration) error
	// Flush drops every cached search entry. Called after mutations that
	// change what a search would return.
	Flush(ctx context.Context) error
	Close() error
}
