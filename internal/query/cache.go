package query

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SelectionCache keeps recent selections under opaque handles so a later
// export request can refer to the selection of an earlier query
type SelectionCache struct {
	cache *cache.Cache
}

// NewSelectionCache creates a cache whose entries expire after ttl
func NewSelectionCache(ttl time.Duration) *SelectionCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := ttl
	if cleanup == cache.NoExpiration {
		cleanup = 0
	}
	return &SelectionCache{cache: cache.New(ttl, cleanup)}
}

// Put stores sel and returns its handle
func (c *SelectionCache) Put(sel Selection) string {
	handle := uuid.NewString()
	c.cache.SetDefault(handle, sel)
	return handle
}

// Get returns the selection stored under handle
func (c *SelectionCache) Get(handle string) (Selection, bool) {
	if handle == "" {
		return Selection{}, false
	}
	v, ok := c.cache.Get(handle)
	if !ok {
		return Selection{}, false
	}
	sel, ok := v.(Selection)
	return sel, ok
}
