// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/backend/testbackend"
	"github.com/vechain/ethdev/logdb"
	"github.com/vechain/ethdev/trie"
)

var signer = types.LatestSignerForChainID(testbackend.ChainID)

func newDB(t *testing.T) *logdb.LogDB {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// blockWithLogs builds block num holding one unsigned zero value tx whose receipt carries n logs.
func blockWithLogs(num int64, n int) (*types.Block, types.Receipts) {
	to := common.Address{0xee}
	tx := types.NewTx(&types.LegacyTx{To: &to, Gas: 21000, GasPrice: big.NewInt(1)})
	rc := &types.Receipt{Status: types.ReceiptStatusSuccessful}
	for i := range n {
		rc.Logs = append(rc.Logs, &types.Log{
			Address: common.Address{byte(i % 2)},
			Topics:  []common.Hash{{0x70}, {byte(i)}},
			Data:    []byte{byte(i)},
			Index:   uint(i),
		})
	}
	header := &types.Header{Number: big.NewInt(num), Time: uint64(1000 + num)}
	blk := types.NewBlock(header, &types.Body{Transactions: types.Transactions{tx}}, types.Receipts{rc}, trie.NewListHasher())
	return blk, types.Receipts{rc}
}

func TestFilterEvents(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	for num := int64(1); num <= 3; num++ {
		blk, receipts := blockWithLogs(num, 4)
		require.NoError(t, db.Write(blk, receipts, signer))
	}

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 12)
	assert.Equal(t, uint64(1), all[0].BlockNumber)
	assert.Equal(t, uint64(1001), all[0].BlockTime)
	assert.Equal(t, common.Hash{0x70}, *all[0].Topics[0])
	assert.Nil(t, all[0].Topics[2])
	assert.Equal(t, []byte{3}, all[3].Data)

	addr := common.Address{1}
	events, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &addr}},
		Range:       &logdb.Range{From: 2, To: 3},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, uint64(3), events[0].BlockNumber)
	assert.Equal(t, uint32(3), events[0].Index)
	assert.Equal(t, uint64(2), events[3].BlockNumber)

	// criteria are OR'ed
	t2, t3 := common.Hash{2}, common.Hash{3}
	events, err = db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{
			{Topics: [4]*common.Hash{nil, &t2}},
			{Topics: [4]*common.Hash{nil, &t3}},
		},
		Options: &logdb.Options{Offset: 1, Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].BlockNumber)
	assert.Equal(t, uint32(3), events[0].Index)
	assert.Equal(t, uint64(2), events[1].BlockNumber)

	// empty range
	events, err = db.FilterEvents(ctx, &logdb.EventFilter{Range: &logdb.Range{From: 3, To: 2}})
	require.NoError(t, err)
	assert.Empty(t, events)

	// rewriting a block is idempotent
	blk, receipts := blockWithLogs(1, 4)
	require.NoError(t, db.Write(blk, receipts, signer))
	all, err = db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestWriteSkipsFailedTx(t *testing.T) {
	db := newDB(t)
	blk, receipts := blockWithLogs(1, 2)
	receipts[0].Status = types.ReceiptStatusFailed
	require.NoError(t, db.Write(blk, receipts, signer))

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.Error(t, db.Write(blk, nil, signer))
}

func TestIndexerTransfers(t *testing.T) {
	node := testbackend.New(t)
	db := newDB(t)
	ix, err := logdb.NewIndexer(db, node.Repo(), signer)
	require.NoError(t, err)

	alice, bob := common.Address{0xa1}, common.Address{0xb0}
	_, tx1 := node.MineTransfer(t, alice, 100)
	_, tx2 := node.MineTransfer(t, bob, 200)
	// zero value transfers are not recorded
	node.MineTransfer(t, bob, 0)
	require.NoError(t, ix.Sync())

	ctx := context.Background()
	transfers, err := db.FilterTransfers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, node.Address, transfers[0].Sender)
	assert.Equal(t, alice, transfers[0].Recipient)
	assert.Equal(t, big.NewInt(100), transfers[0].Amount)
	assert.Equal(t, tx1.Hash(), transfers[0].TxHash)
	assert.Equal(t, uint64(1), transfers[0].BlockNumber)

	transfers, err = db.FilterTransfers(ctx, &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &bob}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, tx2.Hash(), transfers[0].TxHash)

	hash := tx1.Hash()
	transfers, err = db.FilterTransfers(ctx, &logdb.TransferFilter{TxHash: &hash})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, alice, transfers[0].Recipient)

	// nothing new to index
	require.NoError(t, ix.Sync())
	transfers, err = db.FilterTransfers(ctx, &logdb.TransferFilter{Range: &logdb.Range{From: 0, To: 10}, Order: logdb.DESC})
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, uint64(2), transfers[0].BlockNumber)
}

func TestIndexerRun(t *testing.T) {
	node := testbackend.New(t)
	db := newDB(t)
	ix, err := logdb.NewIndexer(db, node.Repo(), signer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ix.Run(ctx)
		close(done)
	}()

	node.MineTransfer(t, common.Address{0xa1}, 1)
	assert.Eventually(t, func() bool {
		transfers, err := db.FilterTransfers(context.Background(), nil)
		return err == nil && len(transfers) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
