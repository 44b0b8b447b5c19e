// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package backend serves the node operations on top of the live state and the chain.
package backend

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/chain"
	"github.com/vechain/ethdev/log"
	"github.com/vechain/ethdev/state"
	"github.com/vechain/ethdev/trie"
)

var logger = log.WithContext("pkg", "backend")

var (
	// ErrStateUnavailable is returned when the state of a block is no longer archived.
	ErrStateUnavailable = errors.New("state unavailable")
	// ErrDumpUnsupported is returned when the live state can not be dumped or loaded.
	ErrDumpUnsupported = errors.New("state dump not supported")
)

// Executor runs a transaction against a state. It is the EVM of the node.
// A returned error means the transaction is invalid and must not be included.
type Executor interface {
	Execute(ctx context.Context, db state.Store, header *types.Header, tx *types.Transaction) (*types.Receipt, error)
}

// Options configures a Backend.
type Options struct {
	GasLimit     uint64
	BaseFee      *big.Int
	Coinbase     common.Address
	StateHistory int
}

// DefaultOptions are the options of a fresh dev chain.
var DefaultOptions = Options{
	GasLimit:     30_000_000,
	BaseFee:      big.NewInt(1_000_000_000),
	StateHistory: 128,
}

// Backend owns the live state and the chain of a node.
type Backend struct {
	mu      sync.Mutex // serializes block production and forced writes
	db      state.Store
	repo    *chain.Repository
	exec    Executor
	archive *state.Archive
	opts    Options
}

// New creates a backend. The current state is archived as the state of the best block.
func New(db state.Store, repo *chain.Repository, exec Executor, opts Options) (*Backend, error) {
	if opts.StateHistory <= 0 {
		opts.StateHistory = DefaultOptions.StateHistory
	}
	archive, err := state.NewArchive(opts.StateHistory)
	if err != nil {
		return nil, errors.Wrap(err, "new state archive")
	}

	best := repo.BestBlock()
	db.SetBlockHash(best.NumberU64(), best.Hash())
	archive.Put(best.Hash(), db.Freeze())

	return &Backend{
		db:      db,
		repo:    repo,
		exec:    exec,
		archive: archive,
		opts:    opts,
	}, nil
}

// Repo returns the chain repository.
func (b *Backend) Repo() *chain.Repository {
	return b.repo
}

// IsNotFound returns if an error means not found.
func (b *Backend) IsNotFound(err error) bool {
	return b.repo.IsNotFound(err)
}

// StateAt returns the state as of a block. The best block and pending read the live state.
func (b *Backend) StateAt(rev chain.Revision) (state.Reader, error) {
	if rev.IsPending() {
		return b.db, nil
	}
	blk, err := b.repo.GetBlockByRevision(rev)
	if err != nil {
		return nil, err
	}
	if blk.Hash() == b.repo.BestHash() {
		return b.db, nil
	}
	if r, ok := b.archive.Get(blk.Hash()); ok {
		return r, nil
	}
	return nil, errors.Wrapf(ErrStateUnavailable, "block %d", blk.NumberU64())
}

func (b *Backend) Balance(addr common.Address, rev chain.Revision) (*uint256.Int, error) {
	st, err := b.StateAt(rev)
	if err != nil {
		return nil, err
	}
	return st.GetAccount(addr).Balance, nil
}

func (b *Backend) Nonce(addr common.Address, rev chain.Revision) (uint64, error) {
	st, err := b.StateAt(rev)
	if err != nil {
		return 0, err
	}
	return st.GetAccount(addr).Nonce, nil
}

func (b *Backend) Code(addr common.Address, rev chain.Revision) ([]byte, error) {
	st, err := b.StateAt(rev)
	if err != nil {
		return nil, err
	}
	acc := st.GetAccount(addr)
	if !acc.HasCode() {
		return nil, nil
	}
	return st.GetCode(acc.CodeHash), nil
}

func (b *Backend) StorageAt(addr common.Address, key common.Hash, rev chain.Revision) (common.Hash, error) {
	st, err := b.StateAt(rev)
	if err != nil {
		return common.Hash{}, err
	}
	return st.GetStorage(addr, key), nil
}

func (b *Backend) Block(rev chain.Revision) (*types.Block, error) {
	return b.repo.GetBlockByRevision(rev)
}

func (b *Backend) Transaction(hash common.Hash) (*chain.MinedTransaction, error) {
	return b.repo.GetTransaction(hash)
}

func (b *Backend) Receipt(hash common.Hash) (*types.Receipt, error) {
	return b.repo.GetReceipt(hash)
}

func (b *Backend) BlockNumber() uint64 {
	return b.repo.BestNumber()
}

// SetBalance forces the balance of an account.
func (b *Backend) SetBalance(addr common.Address, balance *uint256.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.db.SetBalance(addr, balance)
}

// SetNonce forces the nonce of an account.
func (b *Backend) SetNonce(addr common.Address, nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.db.SetNonce(addr, nonce)
}

// SetCode forces the code of an account.
func (b *Backend) SetCode(addr common.Address, code []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.db.SetCode(addr, code)
}

// SetStorageAt forces a storage slot.
func (b *Backend) SetStorageAt(addr common.Address, key, value common.Hash) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.db.SetStorage(addr, key, value)
}

// Snapshot snapshots the live state.
func (b *Backend) Snapshot() state.SnapshotID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.Snapshot()
}

// Revert reverts the live state to a snapshot. Mined blocks stay.
func (b *Backend) Revert(id state.SnapshotID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.Revert(id)
}

// DumpState exports the live state.
func (b *Backend) DumpState() (*state.Dump, error) {
	dumper, ok := b.db.(state.Dumper)
	if !ok {
		return nil, ErrDumpUnsupported
	}
	d, ok := dumper.Dump()
	if !ok {
		return nil, ErrDumpUnsupported
	}
	return d, nil
}

// LoadState imports d into the live state.
func (b *Backend) LoadState(d *state.Dump) error {
	loader, ok := b.db.(state.Loader)
	if !ok {
		return ErrDumpUnsupported
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	loader.Load(d)
	return nil
}

func (b *Backend) nextHeader(parent *types.Block) *types.Header {
	now := uint64(time.Now().Unix())
	if now <= parent.Time() {
		now = parent.Time() + 1
	}
	return &types.Header{
		ParentHash: parent.Hash(),
		UncleHash:  types.EmptyUncleHash,
		Coinbase:   b.opts.Coinbase,
		Difficulty: new(big.Int),
		Number:     new(big.Int).Add(parent.Number(), common.Big1),
		GasLimit:   b.opts.GasLimit,
		Time:       now,
		BaseFee:    b.opts.BaseFee,
	}
}

// execute runs txs in order. A failing tx has its state changes reverted and is skipped.
func (b *Backend) execute(ctx context.Context, db state.Store, header *types.Header, txs []*types.Transaction) (types.Transactions, types.Receipts, error) {
	var (
		included types.Transactions
		receipts types.Receipts
	)
	for _, tx := range txs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if header.GasUsed+tx.Gas() > header.GasLimit {
			logger.Debug("tx skipped, block gas limit reached", "tx", tx.Hash())
			metricTxCount().AddWithLabel(1, map[string]string{"result": "skipped"})
			continue
		}

		id := db.Snapshot()
		rc, err := b.exec.Execute(ctx, db, header, tx)
		if err != nil {
			db.Revert(id)
			logger.Debug("tx dropped", "tx", tx.Hash(), "err", err)
			metricTxCount().AddWithLabel(1, map[string]string{"result": "dropped"})
			continue
		}
		db.Commit(id)
		header.GasUsed += rc.GasUsed
		rc.CumulativeGasUsed = header.GasUsed
		rc.Bloom = types.CreateBloom(rc)

		included = append(included, tx)
		receipts = append(receipts, rc)
		metricTxCount().AddWithLabel(1, map[string]string{"result": "included"})
	}
	return included, receipts, nil
}

func (b *Backend) seal(db state.Store, header *types.Header, txs types.Transactions, receipts types.Receipts) *types.Block {
	root, ok := db.StateRoot()
	if !ok {
		root = types.EmptyRootHash
	}
	header.Root = root
	return types.NewBlock(header, &types.Body{Transactions: txs}, receipts, trie.NewListHasher())
}

// Mine executes txs against the live state and appends the resulting block.
func (b *Backend) Mine(ctx context.Context, txs []*types.Transaction) (*types.Block, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	header := b.nextHeader(b.repo.BestBlock())

	id := b.db.Snapshot()
	included, receipts, err := b.execute(ctx, b.db, header, txs)
	if err != nil {
		b.db.Revert(id)
		return nil, err
	}
	blk := b.seal(b.db, header, included, receipts)

	if err := b.repo.AddBlock(blk, receipts); err != nil {
		b.db.Revert(id)
		return nil, errors.Wrap(err, "add block")
	}
	b.db.Commit(id)
	b.db.SetBlockHash(blk.NumberU64(), blk.Hash())
	b.archive.Put(blk.Hash(), b.db.Freeze())

	metricMineDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"kind": "mine"})
	logger.Info("mined block", "number", blk.NumberU64(), "hash", blk.Hash(), "txs", len(included), "gas", header.GasUsed)
	return blk, nil
}

// Pending executes txs on top of the live state without committing anything.
func (b *Backend) Pending(ctx context.Context, txs []*types.Transaction) (*types.Block, error) {
	start := time.Now()

	// run on a frozen copy, blocks mined meanwhile are not seen
	b.mu.Lock()
	overlay := state.NewOverlay(b.db.Freeze())
	header := b.nextHeader(b.repo.BestBlock())
	b.mu.Unlock()

	included, receipts, err := b.execute(ctx, overlay, header, txs)
	if err != nil {
		return nil, err
	}
	blk := b.seal(overlay, header, included, receipts)
	metricMineDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"kind": "pending"})
	return blk, nil
}
