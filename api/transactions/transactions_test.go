// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/api/transactions"
	"github.com/vechain/ethdev/backend/testbackend"
	"github.com/vechain/ethdev/chain"
)

var bob = common.Address{0xb0}

func initTransactionServer(t *testing.T) (*testbackend.Node, *httptest.Server) {
	node := testbackend.New(t)
	router := mux.NewRouter()
	transactions.New(node.Backend).Mount(router, "/transactions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return node, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestGetTransaction(t *testing.T) {
	node, ts := initTransactionServer(t)
	blk, tx := node.MineTransfer(t, bob, 10)

	body, status := httpGet(t, ts.URL+"/transactions/"+tx.Hash().Hex())
	require.Equal(t, http.StatusOK, status)
	var got transactions.Transaction
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, tx.Hash(), got.Tx.Hash())
	assert.Equal(t, blk.Hash(), got.Meta.BlockHash)
	assert.Equal(t, hexutil.Uint64(1), got.Meta.BlockNumber)
	assert.Equal(t, hexutil.Uint(0), got.Meta.TransactionIndex)

	body, status = httpGet(t, ts.URL+"/transactions/"+tx.Hash().Hex()+"?raw=true")
	require.Equal(t, http.StatusOK, status)
	var raw transactions.RawTransaction
	require.NoError(t, json.Unmarshal(body, &raw))
	enc, err := tx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, hexutil.Bytes(enc), raw.Raw)

	body, status = httpGet(t, ts.URL+"/transactions/"+common.Hash{0x01}.Hex())
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null\n", string(body))

	_, status = httpGet(t, ts.URL+"/transactions/"+tx.Hash().Hex()+"?raw=1")
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = httpGet(t, ts.URL+"/transactions/0xzz")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetReceipt(t *testing.T) {
	node, ts := initTransactionServer(t)
	blk, tx := node.MineTransfer(t, bob, 10)

	body, status := httpGet(t, ts.URL+"/transactions/"+tx.Hash().Hex()+"/receipt")
	require.Equal(t, http.StatusOK, status)
	var rc types.Receipt
	require.NoError(t, json.Unmarshal(body, &rc))
	assert.Equal(t, types.ReceiptStatusSuccessful, rc.Status)
	assert.Equal(t, tx.Hash(), rc.TxHash)
	assert.Equal(t, blk.Hash(), rc.BlockHash)
	assert.Equal(t, uint64(21000), rc.GasUsed)

	body, status = httpGet(t, ts.URL+"/transactions/"+common.Hash{0x01}.Hex()+"/receipt")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null\n", string(body))
}

func TestSendTransaction(t *testing.T) {
	node, ts := initTransactionServer(t)

	tx := node.Transfer(t, bob, 42)
	enc, err := tx.MarshalBinary()
	require.NoError(t, err)

	body, status := httpPost(t, ts.URL+"/transactions", &transactions.RawTransaction{Raw: enc})
	require.Equal(t, http.StatusOK, status, string(body))
	var res transactions.SendResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, tx.Hash(), res.ID)
	assert.Equal(t, hexutil.Uint64(1), res.BlockNumber)

	bal, err := node.Balance(bob, chain.RevisionLatest)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(42), bal)

	// replayed nonce is rejected without mining a block
	_, status = httpPost(t, ts.URL+"/transactions", &transactions.RawTransaction{Raw: enc})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, uint64(1), node.BlockNumber())

	_, status = httpPost(t, ts.URL+"/transactions", &transactions.RawTransaction{Raw: []byte{0x01}})
	assert.Equal(t, http.StatusBadRequest, status)

	_, status = httpPost(t, ts.URL+"/transactions", map[string]string{"unknown": "0x"})
	assert.Equal(t, http.StatusBadRequest, status)
}
