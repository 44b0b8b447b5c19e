// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fork implements a state store forked from a remote chain.
//
// Reads are served by local writes first, then by a cache of the remote state
// as of the pinned block. A cache miss blocks the caller on the remote fetch,
// so the EVM sees a synchronous state.
package fork

import (
	"context"
	"time"

	"github.com/vechain/ethdev/cache"
	"github.com/vechain/ethdev/log"
	"github.com/vechain/ethdev/state"
)

var logger = log.WithContext("pkg", "fork")

// DefaultFetchTimeout bounds a single remote fetch.
const DefaultFetchTimeout = 30 * time.Second

type options struct {
	timeout time.Duration
}

// Option configures a Store.
type Option func(*options)

// WithFetchTimeout sets the timeout of a single remote fetch. Zero disables it.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Store is a state.Store forked from a remote chain at a pinned block.
// Writes, snapshots and reverts only ever touch the local overlay.
type Store struct {
	*state.Overlay

	cache  *remoteCache
	cancel context.CancelFunc
}

var _ state.Store = (*Store)(nil)

// New creates a store reading missing data from remote as of pin.
func New(ctx context.Context, remote Remote, pin Pin, opts ...Option) *Store {
	o := options{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	c := newRemoteCache(ctx, remote, pin, o.timeout)

	logger.Info("forked remote state", "number", pin.Number, "hash", pin.Hash)
	return &Store{
		Overlay: state.NewOverlay(c),
		cache:   c,
		cancel:  cancel,
	}
}

// Pin returns the remote block the store reads from.
func (s *Store) Pin() Pin {
	return s.cache.pin
}

// Stats returns the hit/miss counters of the remote cache.
func (s *Store) Stats() *cache.Stats {
	return &s.cache.stats
}

// Close aborts in-flight fetches. Later cache misses read as default values.
func (s *Store) Close() {
	s.cancel()
}
