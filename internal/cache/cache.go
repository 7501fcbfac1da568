// Package cache deduplicates analysis on the HTTP path. Identical content
// inside the TTL costs one engine run. Everything lives in memory: verdicts
// never touch disk outside an explicit export.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/sentralab/sentra/internal/model"
)

// Cache is the storage behind ResultCache.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a piece of content. Same bytes, same key:
// the digest matches the fingerprint the engine stamps on the result.
func Key(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "sentra:v1:" + hex.EncodeToString(hash[:])
}

// ResultCache stores marshaled analysis results keyed by content.
type ResultCache struct {
	backend Cache
	ttl     time.Duration
}

func NewResultCache(backend Cache, ttl time.Duration) *ResultCache {
	return &ResultCache{backend: backend, ttl: ttl}
}

// Get returns the cached result for content, if present and decodable.
func (c *ResultCache) Get(content string) (*model.AnalysisResult, bool) {
	data, ok := c.backend.Get(Key(content))
	if !ok {
		return nil, false
	}

	var res model.AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		_ = c.backend.Delete(Key(content)) // poisoned entry
		return nil, false
	}
	return &res, true
}

// Set stores a result under the content's key.
func (c *ResultCache) Set(content string, res *model.AnalysisResult) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	_ = c.backend.Set(Key(content), data, c.ttl)
}
