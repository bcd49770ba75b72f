package metadata

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/outcry-labs/go-outcry/types"
	"github.com/outcry-labs/go-outcry/utils"
)

// Cache memoizes resolved metadata by mint address. Entries live until the
// configured TTL passes or Clear is called; a zero TTL never expires.
type Cache struct {
	manager *cache.Cache[*types.ResolvedMetadata]
	client  *ristretto.Cache
	ttl     time.Duration
}

func NewCache(cfg types.CacheConfig) (*Cache, error) {
	manager, client, err := utils.NewCache[*types.ResolvedMetadata](cfg)
	if err != nil {
		return nil, err
	}
	return &Cache{
		manager: manager,
		client:  client,
		ttl:     cfg.TTL,
	}, nil
}

func cacheKey(mint string) string {
	return "Metadata:" + mint
}

func (c *Cache) Get(ctx context.Context, mint string) (*types.ResolvedMetadata, bool) {
	v, err := c.manager.Get(ctx, cacheKey(mint))
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// Set stores v and returns once the entry is visible to Get.
func (c *Cache) Set(ctx context.Context, mint string, v *types.ResolvedMetadata) error {
	err := c.manager.Set(ctx, cacheKey(mint), v, store.WithCost(1), store.WithExpiration(c.ttl))
	c.client.Wait()
	return err
}

// Clear drops every entry, ending the current session.
func (c *Cache) Clear(ctx context.Context) error {
	return c.manager.Clear(ctx)
}

func (c *Cache) Close() {
	c.client.Close()
}
