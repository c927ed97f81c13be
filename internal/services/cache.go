package services

import (
	"time"

	"github.com/dmitrijs2005/lanshare/internal/metrics"
	"github.com/dmitrijs2005/lanshare/internal/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// FileCache is an LRU of file entries by id with a TTL. Entries are immutable
// once created, so the only invalidation needed is on removal.
type FileCache struct {
	cache   *expirable.LRU[int64, *models.FileEntry]
	metrics *metrics.Metrics
}

// NewFileCache creates a cache holding at most size entries for ttl each.
func NewFileCache(size int, ttl time.Duration, m *metrics.Metrics) *FileCache {
	return &FileCache{
		cache:   expirable.NewLRU[int64, *models.FileEntry](size, nil, ttl),
		metrics: m,
	}
}

func (c *FileCache) Get(id int64) (*models.FileEntry, bool) {
	e, ok := c.cache.Get(id)
	if ok {
		c.metrics.CacheHits.Inc()
		return e, true
	}
	c.metrics.CacheMisses.Inc()
	return nil, false
}

func (c *FileCache) Set(id int64, e *models.FileEntry) {
	c.cache.Add(id, e)
}

func (c *FileCache) Delete(id int64) {
	c.cache.Remove(id)
}

func (c *FileCache) Len() int {
	return c.cache.Len()
}
