package scraper

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/jobgenie/backend/models"
)

// Cache is a byte-oriented TTL cache
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher serves repeated page fetches from a cache. Only successful
// responses are stored; cache failures fall through to the wrapped fetcher.
type CachedFetcher struct {
	next  PageFetcher
	cache Cache
	ttl   time.Duration
}

// NewCachedFetcher wraps next with cache
func NewCachedFetcher(next PageFetcher, cache Cache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache, ttl: ttl}
}

func cacheKey(pageURL string) string {
	sum := sha1.Sum([]byte(pageURL))
	return "jobpage:" + hex.EncodeToString(sum[:])
}

// FetchJobPage returns the cached response for pageURL or fetches it
func (c *CachedFetcher) FetchJobPage(ctx context.Context, pageURL string) (*models.FetchPageResponse, error) {
	key := cacheKey(pageURL)

	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Printf("[Scraper] Cache read failed for %s: %v", pageURL, err)
	} else if ok {
		var cached models.FetchPageResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	resp, err := c.next.FetchJobPage(ctx, pageURL)
	if err != nil || resp == nil || resp.Error != "" {
		return resp, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			log.Printf("[Scraper] Cache write failed for %s: %v", pageURL, err)
		}
	}
	return resp, nil
}
