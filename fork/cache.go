// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fork

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vechain/ethdev/cache"
	"github.com/vechain/ethdev/state"
	"golang.org/x/sync/singleflight"
)

// remoteCache is a read through cache of the pinned remote state.
// Entries never change once cached since the pin is immutable.
// Failed fetches read as default values and are not cached.
type remoteCache struct {
	ctx     context.Context
	remote  Remote
	pin     Pin
	timeout time.Duration

	mu          sync.RWMutex
	accounts    map[common.Address]*state.Account
	codes       map[common.Hash][]byte
	storage     map[storageKey]common.Hash
	blockHashes map[uint64]common.Hash

	group singleflight.Group
	stats cache.Stats
}

type storageKey struct {
	addr common.Address
	key  common.Hash
}

var _ state.Reader = (*remoteCache)(nil)

func newRemoteCache(ctx context.Context, remote Remote, pin Pin, timeout time.Duration) *remoteCache {
	return &remoteCache{
		ctx:         ctx,
		remote:      remote,
		pin:         pin,
		timeout:     timeout,
		accounts:    make(map[common.Address]*state.Account),
		codes:       make(map[common.Hash][]byte),
		storage:     make(map[storageKey]common.Hash),
		blockHashes: map[uint64]common.Hash{pin.Number: pin.Hash},
	}
}

// lookup returns the cached value, fetching it once on a miss.
func lookup[K comparable, V any](
	c *remoteCache,
	kind string,
	key K,
	m map[K]V,
	fetch func(ctx context.Context) (V, error),
	onFetched func(V),
) (V, bool) {
	c.mu.RLock()
	v, ok := m[key]
	c.mu.RUnlock()
	if ok {
		c.stats.Hit()
		return v, true
	}
	c.stats.Miss()

	res, err, _ := c.group.Do(fmt.Sprintf("%s/%v", kind, key), func() (any, error) {
		// may have been filled by a previous flight
		c.mu.RLock()
		v, ok := m[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		ctx := c.ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		start := time.Now()
		v, err := fetch(ctx)
		metricFetchDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"type": kind})
		if err != nil {
			metricFetchCount().AddWithLabel(1, map[string]string{"type": kind, "result": "error"})
			return nil, err
		}
		metricFetchCount().AddWithLabel(1, map[string]string{"type": kind, "result": "ok"})

		c.mu.Lock()
		m[key] = v
		if onFetched != nil {
			onFetched(v)
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		logger.Warn("remote fetch failed", "type", kind, "key", key, "pin", c.pin.Number, "err", err)
		var zero V
		return zero, false
	}
	return res.(V), true
}

func (c *remoteCache) GetAccount(addr common.Address) *state.Account {
	acc, ok := lookup(c, "account", addr, c.accounts,
		func(ctx context.Context) (*state.Account, error) {
			return c.remote.Account(ctx, addr, c.pin.Number)
		},
		func(acc *state.Account) {
			if len(acc.Code) > 0 {
				c.codes[acc.CodeHash] = acc.Code
			}
		},
	)
	if !ok {
		return state.NewAccount()
	}
	return acc.Copy()
}

// GetCode returns code learned from fetched accounts. Code can not be fetched by hash.
func (c *remoteCache) GetCode(codeHash common.Hash) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return bytes.Clone(c.codes[codeHash])
}

func (c *remoteCache) GetStorage(addr common.Address, key common.Hash) common.Hash {
	v, _ := lookup(c, "storage", storageKey{addr, key}, c.storage,
		func(ctx context.Context) (common.Hash, error) {
			return c.remote.Storage(ctx, addr, key, c.pin.Number)
		}, nil)
	return v
}

// GetBlockHash fetches hashes of blocks up to the pin. Later blocks are local.
func (c *remoteCache) GetBlockHash(num uint64) common.Hash {
	if num > c.pin.Number {
		return common.Hash{}
	}
	h, _ := lookup(c, "blockhash", num, c.blockHashes,
		func(ctx context.Context) (common.Hash, error) {
			return c.remote.BlockHash(ctx, num)
		}, nil)
	return h
}
