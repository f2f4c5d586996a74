package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/search"
)

const keyPrefix = "elastictools:results:"

// ErrKeyNotFound reports a cache miss.
var ErrKeyNotFound = errors.New("cache: key not found")

// Store is the minimal key-value surface the results cache needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ResultsCache keeps rendered result pages in a key-value store for a short
// TTL. Cache problems are logged and treated as misses; the search path
// never fails because of the cache.
type ResultsCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func New(store Store, ttl time.Duration, logger *zap.Logger) *ResultsCache {
	return &ResultsCache{store: store, ttl: ttl, logger: logger}
}

// Key derives the cache key for one request: path plus canonicalized query.
func (c *ResultsCache) Key(path string, query url.Values) string {
	h := sha256.Sum256([]byte(path + "?" + query.Encode()))
	return keyPrefix + hex.EncodeToString(h[:])
}

// GetPage returns a cached page, or nil on miss.
func (c *ResultsCache) GetPage(ctx context.Context, key string) *search.ResultsPage {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			c.logger.Warn("results cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var page search.ResultsPage
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("results cache entry unreadable", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &page
}

// PutPage stores a rendered page.
func (c *ResultsCache) PutPage(ctx context.Context, key string, page *search.ResultsPage) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("results cache marshal failed", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("results cache set failed", zap.String("key", key), zap.Error(err))
	}
}
