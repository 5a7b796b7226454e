package util

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ReadCache memoizes read-path query results. A nil *ReadCache is valid and
// caches nothing.
type ReadCache struct {
	c *gocache.Cache
}

// NewReadCache creates a cache whose entries expire after ttl. A non-positive
// ttl disables caching.
func NewReadCache(ttl time.Duration) *ReadCache {
	if ttl <= 0 {
		return nil
	}
	return &ReadCache{c: gocache.New(ttl, 2*ttl)}
}

func (rc *ReadCache) Get(key string) (interface{}, bool) {
	if rc == nil {
		return nil, false
	}
	return rc.c.Get(key)
}

func (rc *ReadCache) Set(key string, value interface{}) {
	if rc == nil {
		return
	}
	rc.c.SetDefault(key, value)
}

// Flush drops every entry. It is called after a pipeline run replaces the
// comorbidity set.
func (rc *ReadCache) Flush() {
	if rc == nil {
		return
	}
	rc.c.Flush()
}

func (rc *ReadCache) Len() int {
	if rc == nil {
		return 0
	}
	return rc.c.ItemCount()
}
