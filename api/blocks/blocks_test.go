// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/api/blocks"
	"github.com/vechain/ethdev/backend/testbackend"
)

func initBlockServer(t *testing.T) (*types.Block, *types.Transaction, *httptest.Server) {
	node := testbackend.New(t)
	blk, tx := node.MineTransfer(t, common.Address{0xb0}, 1)

	router := mux.NewRouter()
	blocks.New(node.Backend).Mount(router, "/blocks")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return blk, tx, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func checkSummary(t *testing.T, want *types.Block, got *blocks.JSONBlockSummary) {
	assert.Equal(t, hexutil.Uint64(want.NumberU64()), got.Number)
	assert.Equal(t, want.Hash(), got.Hash)
	assert.Equal(t, want.ParentHash(), got.ParentHash)
	assert.Equal(t, want.Root(), got.StateRoot)
	assert.Equal(t, want.TxHash(), got.TransactionsRoot)
	assert.Equal(t, want.ReceiptHash(), got.ReceiptsRoot)
	assert.Equal(t, hexutil.Uint64(want.GasUsed()), got.GasUsed)
	assert.Equal(t, want.BaseFee(), got.BaseFee.ToInt())
}

func TestGetBlock(t *testing.T) {
	blk, tx, ts := initBlockServer(t)

	for _, rev := range []string{"1", "0x1", "latest", blk.Hash().Hex()} {
		body, status := httpGet(t, ts.URL+"/blocks/"+rev)
		require.Equal(t, http.StatusOK, status, rev)

		var got blocks.JSONCollapsedBlock
		require.NoError(t, json.Unmarshal(body, &got))
		checkSummary(t, blk, got.JSONBlockSummary)
		assert.Equal(t, []common.Hash{tx.Hash()}, got.Transactions)
	}

	body, status := httpGet(t, ts.URL+"/blocks/earliest")
	require.Equal(t, http.StatusOK, status)
	var genesis blocks.JSONCollapsedBlock
	require.NoError(t, json.Unmarshal(body, &genesis))
	assert.Equal(t, blk.ParentHash(), genesis.Hash)
	assert.Empty(t, genesis.Transactions)
}

func TestGetExpandedBlock(t *testing.T) {
	blk, tx, ts := initBlockServer(t)

	body, status := httpGet(t, ts.URL+"/blocks/1?expanded=true")
	require.Equal(t, http.StatusOK, status)

	var got blocks.JSONExpandedBlock
	require.NoError(t, json.Unmarshal(body, &got))
	checkSummary(t, blk, got.JSONBlockSummary)
	require.Len(t, got.Transactions, 1)
	assert.Equal(t, tx.Hash(), got.Transactions[0].Hash())
}

func TestGetBlockErrors(t *testing.T) {
	_, _, ts := initBlockServer(t)

	body, status := httpGet(t, ts.URL+"/blocks/100")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null\n", string(body))

	_, status = httpGet(t, ts.URL+"/blocks/abc")
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpGet(t, ts.URL+"/blocks/1?expanded=yes")
	assert.Equal(t, http.StatusBadRequest, status)
}
