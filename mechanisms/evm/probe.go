package evm

import (
	"context"
	"errors"
	"fmt"

	"github.com/allegro/bigcache/v3"
	"github.com/ethereum/go-ethereum/common"
)

// deployedMarker is the value stored for accounts known to have code
var deployedMarker = []byte{1}

// AccountProbe answers whether code exists at an address
type AccountProbe struct {
	reader ChainReader
	// cache holds only positive answers. Code does not disappear once deployed, while a
	// negative answer can turn positive at any block.
	cache *bigcache.BigCache
}

// NewAccountProbe creates a probe over reader
// cache is optional; when set, addresses found to have code are remembered
func NewAccountProbe(reader ChainReader, cache *bigcache.BigCache) *AccountProbe {
	return &AccountProbe{
		reader: reader,
		cache:  cache,
	}
}

// AccountExists returns true iff non-empty code is present at address
//
// Provider errors are returned as errors. Callers that decide to treat a failure as
// "does not exist" must do so explicitly.
func (p *AccountProbe) AccountExists(ctx context.Context, address common.Address) (bool, error) {
	key := address.Hex()
	if p.cache != nil {
		if _, err := p.cache.Get(key); err == nil {
			return true, nil
		} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
			return false, fmt.Errorf("failed to read existence cache: %w", err)
		}
	}

	code, err := p.reader.GetCode(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to get code at %s: %w", key, err)
	}

	exists := len(code) > 0
	if exists && p.cache != nil {
		// A failed write only costs a future round trip
		_ = p.cache.Set(key, deployedMarker)
	}
	return exists, nil
}
