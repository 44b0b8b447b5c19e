// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/vechain/ethdev/cache"
)

// Archive keeps the frozen states of the most recent blocks, keyed by block hash.
type Archive struct {
	views *cache.LRU[common.Hash, Reader]
}

// NewArchive creates an archive holding at most size states.
func NewArchive(size int) (*Archive, error) {
	views, err := cache.NewLRU[common.Hash, Reader](size)
	if err != nil {
		return nil, err
	}
	return &Archive{views}, nil
}

// Put records the state of a block.
func (a *Archive) Put(blockHash common.Hash, r Reader) {
	if a.views.Add(blockHash, r) {
		logger.Debug("archived state evicted", "size", a.views.Len())
	}
	metricArchiveSize().Set(int64(a.views.Len()))
}

// Get returns the state of a block, if still archived.
func (a *Archive) Get(blockHash common.Hash) (Reader, bool) {
	return a.views.Get(blockHash)
}

// Len returns the number of archived states.
func (a *Archive) Len() int {
	return a.views.Len()
}

// Stats returns the hit/miss counters of lookups.
func (a *Archive) Stats() *cache.Stats {
	return a.views.Stats()
}
