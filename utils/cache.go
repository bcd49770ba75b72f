package utils

import (
	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	rstore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/outcry-labs/go-outcry/types"
)

const (
	defaultNumCounters = 100000
	defaultMaxCost     = 10000
	defaultBufferItems = 64
)

// NewCache returns a gocache manager over a ristretto store along with the
// underlying ristretto client, which callers need for Wait.
func NewCache[T any](cfg types.CacheConfig) (*cache.Cache[T], *ristretto.Cache, error) {
	rcache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: orDefault(cfg.NumCounters, defaultNumCounters),
		MaxCost:     orDefault(cfg.MaxCost, defaultMaxCost),
		BufferItems: orDefault(cfg.BufferItems, defaultBufferItems),
		// Entries are charged the cost passed to Set only.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, nil, err
	}

	ristrettoStore := rstore.NewRistretto(rcache)
	manager := cache.New[T](ristrettoStore)
	return manager, rcache, nil
}

func orDefault(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}
