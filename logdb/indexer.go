// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/chain"
)

// Indexer follows the best block of a repository and writes every new block to the db.
type Indexer struct {
	db     *LogDB
	repo   *chain.Repository
	signer types.Signer
	next   uint64
}

// NewIndexer creates an indexer starting at the first block of repo.
func NewIndexer(db *LogDB, repo *chain.Repository, signer types.Signer) (*Indexer, error) {
	first, err := repo.GetBlock(repo.GenesisHash())
	if err != nil {
		return nil, errors.Wrap(err, "get first block")
	}
	return &Indexer{
		db:     db,
		repo:   repo,
		signer: signer,
		next:   first.NumberU64(),
	}, nil
}

// Sync writes the blocks not yet indexed, up to the best block.
func (ix *Indexer) Sync() error {
	for best := ix.repo.BestNumber(); ix.next <= best; ix.next++ {
		blk, err := ix.repo.GetBlockByNumber(ix.next)
		if err != nil {
			return errors.Wrapf(err, "get block %d", ix.next)
		}
		receipts, err := ix.repo.GetBlockReceipts(blk.Hash())
		if err != nil {
			return errors.Wrapf(err, "get receipts of block %d", ix.next)
		}
		if err := ix.db.Write(blk, receipts, ix.signer); err != nil {
			return errors.Wrapf(err, "write block %d", ix.next)
		}
	}
	return nil
}

// Run syncs on every new block until ctx is done.
func (ix *Indexer) Run(ctx context.Context) {
	ticker := ix.repo.NewTicker()
	for {
		if err := ix.Sync(); err != nil {
			logger.Warn("failed to index block", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}
	}
}
