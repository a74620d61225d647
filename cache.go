package sigverify

import (
	"context"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// DefaultCacheLifeWindow is how long a positive existence answer is remembered
const DefaultCacheLifeWindow = 30 * time.Minute

// NewExistenceCache builds the cache handed to evm.NewAccountProbe
//
// Entries are one byte keyed by a checksummed address.
func NewExistenceCache(ctx context.Context, lifeWindow time.Duration) (*bigcache.BigCache, error) {
	if lifeWindow <= 0 {
		lifeWindow = DefaultCacheLifeWindow
	}

	cleanWindow := lifeWindow / 4
	if cleanWindow < time.Second {
		// bigcache has a one second resolution
		cleanWindow = time.Second
	}

	cache, err := bigcache.New(ctx, bigcache.Config{
		// number of shards (must be a power of 2)
		Shards:             64,
		LifeWindow:         lifeWindow,
		CleanWindow:        cleanWindow,
		MaxEntriesInWindow: 10 * 1024,
		MaxEntrySize:       64,
		HardMaxCacheSize:   16,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create existence cache: %w", err)
	}
	return cache, nil
}
