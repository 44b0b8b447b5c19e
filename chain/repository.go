// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain stores the blocks, transactions and receipts mined by the node.
package chain

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/co"
	"github.com/vechain/ethdev/log"
)

var (
	errNotFound = errors.New("not found")

	// ErrParentMismatch is returned when a block does not extend the best block.
	ErrParentMismatch = errors.New("parent hash mismatch")
	// ErrReceiptsMismatch is returned when the receipts do not match the block transactions.
	ErrReceiptsMismatch = errors.New("receipts count mismatch")

	logger = log.WithContext("pkg", "chain")
)

// Repository is an append only, in-memory record of a single chain.
//
// It's thread-safe.
type Repository struct {
	mu          sync.RWMutex
	blocks      map[common.Hash]*blockEntry
	hashes      map[uint64]common.Hash
	txs         map[common.Hash]*MinedTransaction
	genesisHash common.Hash
	bestHash    common.Hash
	bestNumber  uint64

	tick co.Signal
}

// NewGenesisHeader builds the header of a fresh genesis block.
func NewGenesisHeader(stateRoot common.Hash, gasLimit uint64, baseFee *big.Int) *types.Header {
	return &types.Header{
		UncleHash:   types.EmptyUncleHash,
		Root:        stateRoot,
		TxHash:      types.EmptyTxsHash,
		ReceiptHash: types.EmptyReceiptsHash,
		Difficulty:  new(big.Int),
		Number:      new(big.Int),
		GasLimit:    gasLimit,
		Time:        uint64(time.Now().Unix()),
		BaseFee:     baseFee,
	}
}

// NewRepository creates a repository whose genesis block is built from header.
// The number is forced to 0 and a zero timestamp defaults to now.
func NewRepository(header *types.Header) *Repository {
	h := types.CopyHeader(header)
	h.Number = new(big.Int)
	if h.Time == 0 {
		h.Time = uint64(time.Now().Unix())
	}
	if h.Difficulty == nil {
		h.Difficulty = new(big.Int)
	}
	return newRepository(types.NewBlockWithHeader(h))
}

// NewForkedRepository creates a repository whose history begins at the header of a
// remote block. Blocks below it are unknown.
func NewForkedRepository(pin *types.Header) *Repository {
	return newRepository(types.NewBlockWithHeader(pin))
}

func newRepository(first *types.Block) *Repository {
	hash := first.Hash()
	num := first.NumberU64()
	r := &Repository{
		blocks:      map[common.Hash]*blockEntry{hash: {block: first}},
		hashes:      map[uint64]common.Hash{num: hash},
		txs:         make(map[common.Hash]*MinedTransaction),
		genesisHash: hash,
		bestHash:    hash,
		bestNumber:  num,
	}
	metricBlockCount().Add(1)
	metricBestNumber().Set(int64(num))
	return r
}

// AddBlock appends block as the new best block. It is rejected, leaving the
// repository untouched, if block does not extend the best block or if receipts
// do not match its transactions. The receipts are stamped with the block position.
func (r *Repository) AddBlock(block *types.Block, receipts types.Receipts) error {
	txs := block.Transactions()
	if len(receipts) != len(txs) {
		return errors.Wrapf(ErrReceiptsMismatch, "%d receipts for %d txs", len(receipts), len(txs))
	}

	r.mu.Lock()
	if block.ParentHash() != r.bestHash || block.NumberU64() != r.bestNumber+1 {
		best := r.bestNumber
		r.mu.Unlock()
		return errors.Wrapf(ErrParentMismatch, "block %d does not extend best block %d", block.NumberU64(), best)
	}

	hash, num := block.Hash(), block.NumberU64()
	var logIndex uint
	for i, tx := range txs {
		rc := receipts[i]
		rc.TxHash = tx.Hash()
		rc.BlockHash = hash
		rc.BlockNumber = new(big.Int).SetUint64(num)
		rc.TransactionIndex = uint(i)
		for _, l := range rc.Logs {
			l.TxHash = rc.TxHash
			l.BlockHash = hash
			l.BlockNumber = num
			l.TxIndex = uint(i)
			l.Index = logIndex
			logIndex++
		}
		r.txs[rc.TxHash] = &MinedTransaction{
			Tx:          tx,
			Receipt:     rc,
			BlockHash:   hash,
			BlockNumber: num,
			Index:       uint(i),
		}
	}
	r.blocks[hash] = &blockEntry{block: block, receipts: receipts}
	r.hashes[num] = hash
	r.bestHash, r.bestNumber = hash, num
	r.mu.Unlock()

	r.tick.Broadcast()

	metricBlockCount().Add(1)
	metricTransactionCount().Add(int64(len(txs)))
	metricBestNumber().Set(int64(num))
	logger.Debug("block added", "number", num, "hash", hash, "txs", len(txs))
	return nil
}

// NewTicker returns a waiter signaled on every new best block.
func (r *Repository) NewTicker() co.Waiter {
	return r.tick.NewWaiter()
}

// IsNotFound returns if an error means not found.
func (r *Repository) IsNotFound(err error) bool {
	return errors.Cause(err) == errNotFound
}

// GenesisHash returns the hash of the first block, the fork point in fork mode.
func (r *Repository) GenesisHash() common.Hash {
	return r.genesisHash
}

// BestHash returns the hash of the best block.
func (r *Repository) BestHash() common.Hash {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bestHash
}

// BestNumber returns the number of the best block.
func (r *Repository) BestNumber() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bestNumber
}

// BestBlock returns the best block.
func (r *Repository) BestBlock() *types.Block {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blocks[r.bestHash].block
}

// BlockCount returns the number of stored blocks.
func (r *Repository) BlockCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.blocks)
}

// GetBlock returns the block with the given hash.
func (r *Repository) GetBlock(hash common.Hash) (*types.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.blocks[hash]; ok {
		return e.block, nil
	}
	return nil, errNotFound
}

// GetBlockHash returns the hash of the block at num.
func (r *Repository) GetBlockHash(num uint64) (common.Hash, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.hashes[num]; ok {
		return h, nil
	}
	return common.Hash{}, errNotFound
}

// GetBlockByNumber returns the block at num.
func (r *Repository) GetBlockByNumber(num uint64) (*types.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.hashes[num]; ok {
		return r.blocks[h].block, nil
	}
	return nil, errNotFound
}

// GetBlockByRevision resolves a revision. Tags other than earliest resolve to the best block.
func (r *Repository) GetBlockByRevision(rev Revision) (*types.Block, error) {
	switch v := rev.val.(type) {
	case common.Hash:
		return r.GetBlock(v)
	case uint64:
		return r.GetBlockByNumber(v)
	case tag:
		if v == tagEarliest {
			return r.GetBlock(r.genesisHash)
		}
	}
	return r.BestBlock(), nil
}

// GetBlockReceipts returns the receipts of the block with the given hash.
func (r *Repository) GetBlockReceipts(hash common.Hash) (types.Receipts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.blocks[hash]; ok {
		return e.receipts, nil
	}
	return nil, errNotFound
}

// GetTransaction returns a mined transaction.
func (r *Repository) GetTransaction(hash common.Hash) (*MinedTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if tx, ok := r.txs[hash]; ok {
		return tx, nil
	}
	return nil, errNotFound
}

// GetReceipt returns the receipt of a mined transaction.
func (r *Repository) GetReceipt(hash common.Hash) (*types.Receipt, error) {
	tx, err := r.GetTransaction(hash)
	if err != nil {
		return nil, err
	}
	return tx.Receipt, nil
}
