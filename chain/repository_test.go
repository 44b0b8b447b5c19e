// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain_test

import (
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/chain"
	"github.com/vechain/ethdev/trie"
)

func newRepo() *chain.Repository {
	return chain.NewRepository(chain.NewGenesisHeader(types.EmptyRootHash, 30_000_000, big.NewInt(1e9)))
}

func newTx(nonce uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &common.Address{1},
		Value:    big.NewInt(1),
		Gas:      21000,
		GasPrice: big.NewInt(1e9),
	})
}

func newBlock(parent *types.Block, txs ...*types.Transaction) (*types.Block, types.Receipts) {
	receipts := make(types.Receipts, 0, len(txs))
	for range txs {
		receipts = append(receipts, &types.Receipt{
			Status:  types.ReceiptStatusSuccessful,
			GasUsed: 21000,
			Logs:    []*types.Log{{Address: common.Address{1}}},
		})
	}
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     new(big.Int).Add(parent.Number(), common.Big1),
		GasLimit:   parent.GasLimit(),
		Time:       parent.Time() + 1,
		Difficulty: new(big.Int),
	}
	return types.NewBlock(header, &types.Body{Transactions: txs}, receipts, trie.NewListHasher()), receipts
}

func TestGenesis(t *testing.T) {
	repo := newRepo()

	assert.Equal(t, uint64(0), repo.BestNumber())
	assert.Equal(t, repo.GenesisHash(), repo.BestHash())
	assert.Equal(t, 1, repo.BlockCount())

	genesis := repo.BestBlock()
	assert.NotZero(t, genesis.Time())
	assert.Equal(t, types.EmptyRootHash, genesis.Root())

	b, err := repo.GetBlockByNumber(0)
	require.NoError(t, err)
	assert.Equal(t, genesis.Hash(), b.Hash())

	// number is forced to zero
	h := chain.NewGenesisHeader(common.Hash{1}, 1, nil)
	h.Number = big.NewInt(5)
	h.Time = 0
	repo = chain.NewRepository(h)
	assert.Equal(t, uint64(0), repo.BestNumber())
	assert.NotZero(t, repo.BestBlock().Time())
}

func TestAddBlock(t *testing.T) {
	repo := newRepo()
	genesis := repo.BestBlock()

	tx := newTx(0)
	b1, receipts := newBlock(genesis, tx)
	require.NoError(t, repo.AddBlock(b1, receipts))

	assert.Equal(t, uint64(1), repo.BestNumber())
	assert.Equal(t, b1.Hash(), repo.BestHash())
	assert.Equal(t, 2, repo.BlockCount())

	got, err := repo.GetBlock(b1.Hash())
	require.NoError(t, err)
	assert.Equal(t, b1, got)
	got, err = repo.GetBlockByNumber(1)
	require.NoError(t, err)
	assert.Equal(t, b1, got)
	h, err := repo.GetBlockHash(1)
	require.NoError(t, err)
	assert.Equal(t, b1.Hash(), h)

	mined, err := repo.GetTransaction(tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, b1.Hash(), mined.BlockHash)
	assert.Equal(t, uint64(1), mined.BlockNumber)
	assert.Equal(t, uint(0), mined.Index)

	rc, err := repo.GetReceipt(tx.Hash())
	require.NoError(t, err)
	assert.Equal(t, b1.Hash(), rc.BlockHash)
	assert.Equal(t, tx.Hash(), rc.TxHash)
	assert.Equal(t, b1.Hash(), rc.Logs[0].BlockHash)

	rcs, err := repo.GetBlockReceipts(b1.Hash())
	require.NoError(t, err)
	assert.Len(t, rcs, 1)
}

func TestAddBlockRejected(t *testing.T) {
	repo := newRepo()
	genesis := repo.BestBlock()

	b1, receipts := newBlock(genesis, newTx(0))
	require.NoError(t, repo.AddBlock(b1, receipts))

	// sibling of b1
	sibling, receipts := newBlock(genesis, newTx(1))
	err := repo.AddBlock(sibling, receipts)
	assert.ErrorIs(t, err, chain.ErrParentMismatch)

	b2, _ := newBlock(b1, newTx(2))
	err = repo.AddBlock(b2, nil)
	assert.ErrorIs(t, err, chain.ErrReceiptsMismatch)

	assert.Equal(t, uint64(1), repo.BestNumber())
	assert.Equal(t, b1.Hash(), repo.BestHash())
	assert.Equal(t, 2, repo.BlockCount())
	_, err = repo.GetBlock(sibling.Hash())
	assert.True(t, repo.IsNotFound(err))
	_, err = repo.GetTransaction(sibling.Transactions()[0].Hash())
	assert.True(t, repo.IsNotFound(err))
}

func TestNotFound(t *testing.T) {
	repo := newRepo()

	_, err := repo.GetBlock(common.Hash{1})
	assert.True(t, repo.IsNotFound(err))
	_, err = repo.GetBlockByNumber(1)
	assert.True(t, repo.IsNotFound(err))
	_, err = repo.GetBlockHash(1)
	assert.True(t, repo.IsNotFound(err))
	_, err = repo.GetReceipt(common.Hash{1})
	assert.True(t, repo.IsNotFound(err))
	_, err = repo.GetBlockReceipts(common.Hash{1})
	assert.True(t, repo.IsNotFound(err))
	assert.False(t, repo.IsNotFound(chain.ErrParentMismatch))
}

func TestGetBlockByRevision(t *testing.T) {
	repo := newRepo()
	genesis := repo.BestBlock()
	b1, receipts := newBlock(genesis)
	require.NoError(t, repo.AddBlock(b1, receipts))

	tests := []struct {
		rev  string
		want common.Hash
	}{
		{"", b1.Hash()},
		{"latest", b1.Hash()},
		{"pending", b1.Hash()},
		{"safe", b1.Hash()},
		{"finalized", b1.Hash()},
		{"earliest", genesis.Hash()},
		{"0", genesis.Hash()},
		{"0x1", b1.Hash()},
		{genesis.Hash().Hex(), genesis.Hash()},
	}
	for _, tt := range tests {
		rev, err := chain.ParseRevision(tt.rev)
		require.NoError(t, err, tt.rev)
		b, err := repo.GetBlockByRevision(rev)
		require.NoError(t, err, tt.rev)
		assert.Equal(t, tt.want, b.Hash(), tt.rev)
	}

	_, err := repo.GetBlockByRevision(chain.RevisionNumber(5))
	assert.True(t, repo.IsNotFound(err))
}

func TestForkedRepository(t *testing.T) {
	pin := &types.Header{
		ParentHash: common.Hash{0xff},
		Number:     big.NewInt(100),
		GasLimit:   30_000_000,
		Time:       1000,
		Difficulty: new(big.Int),
	}
	repo := chain.NewForkedRepository(pin)

	assert.Equal(t, uint64(100), repo.BestNumber())
	assert.Equal(t, pin.Hash(), repo.GenesisHash())
	assert.Equal(t, pin.Hash(), repo.BestHash())

	_, err := repo.GetBlockByNumber(99)
	assert.True(t, repo.IsNotFound(err))

	earliest, err := repo.GetBlockByRevision(must(chain.ParseRevision("earliest")))
	require.NoError(t, err)
	assert.Equal(t, pin.Hash(), earliest.Hash())

	b101, receipts := newBlock(repo.BestBlock())
	require.NoError(t, repo.AddBlock(b101, receipts))
	assert.Equal(t, uint64(101), repo.BestNumber())
}

func TestTicker(t *testing.T) {
	repo := newRepo()
	ticker := repo.NewTicker()

	b1, receipts := newBlock(repo.BestBlock())
	require.NoError(t, repo.AddBlock(b1, receipts))

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("no tick")
	}
}

func TestConcurrentReads(t *testing.T) {
	repo := newRepo()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				num := repo.BestNumber()
				// a best number always resolves
				_, err := repo.GetBlockByNumber(num)
				assert.NoError(t, err)
			}
		}()
	}

	parent := repo.BestBlock()
	for i := range 50 {
		b, receipts := newBlock(parent, newTx(uint64(i)))
		require.NoError(t, repo.AddBlock(b, receipts))
		parent = b
	}
	wg.Wait()
	assert.Equal(t, uint64(50), repo.BestNumber())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
