package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pestpro/pestpro-api/pkg/logger"
	"github.com/pestpro/pestpro-api/pkg/metrics"
	"go.uber.org/zap"
)

const (
	suggestionCacheName = "address_suggestions"
	suggestionCacheTTL  = 10 * time.Minute
)

// SuggestionCache keeps address autocomplete pages per normalized query
type SuggestionCache struct {
	cache *gocache.Cache
}

// NewSuggestionCache creates a new suggestion cache
func NewSuggestionCache() *SuggestionCache {
	return &SuggestionCache{
		cache: gocache.New(suggestionCacheTTL, 2*suggestionCacheTTL),
	}
}

// Key normalizes a typed query: case and surrounding or repeated whitespace
// do not change the suggestions.
func Key(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Get returns the cached page for query
func (sc *SuggestionCache) Get(query string) ([]string, bool) {
	data, found := sc.cache.Get(Key(query))
	if !found {
		metrics.CacheMisses.WithLabelValues(suggestionCacheName).Inc()
		return nil, false
	}

	page, ok := data.([]string)
	if !ok {
		logger.Error("Invalid suggestion cache data type", zap.String("query", query))
		sc.cache.Delete(Key(query))
		metrics.CacheMisses.WithLabelValues(suggestionCacheName).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(suggestionCacheName).Inc()
	return page, true
}

// Set stores page for query
func (sc *SuggestionCache) Set(query string, page []string) {
	sc.cache.SetDefault(Key(query), page)
}

// Len returns the number of cached queries
func (sc *SuggestionCache) Len() int {
	return sc.cache.ItemCount()
}
