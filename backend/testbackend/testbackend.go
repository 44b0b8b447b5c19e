// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testbackend builds a funded in-memory node for tests.
package testbackend

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/backend"
	"github.com/vechain/ethdev/chain"
	"github.com/vechain/ethdev/state"
)

var (
	ChainID        = big.NewInt(1337)
	InitialBalance = uint256.MustFromDecimal("1000000000000000000000")
)

// Node is a backend with a single funded account.
type Node struct {
	*backend.Backend
	Key     *ecdsa.PrivateKey
	Address common.Address

	signer types.Signer
	nonce  uint64
}

func New(t *testing.T) *Node {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	db := state.NewMemory()
	db.SetBalance(addr, InitialBalance)
	root, ok := db.StateRoot()
	require.True(t, ok)

	opts := backend.DefaultOptions
	repo := chain.NewRepository(chain.NewGenesisHeader(root, opts.GasLimit, opts.BaseFee))
	b, err := backend.New(db, repo, backend.NewTransferExecutor(ChainID), opts)
	require.NoError(t, err)

	return &Node{
		Backend: b,
		Key:     key,
		Address: addr,
		signer:  types.LatestSignerForChainID(ChainID),
	}
}

// Transfer signs a transfer from the funded account using the next nonce.
func (n *Node) Transfer(t *testing.T, to common.Address, value int64) *types.Transaction {
	tx, err := types.SignNewTx(n.Key, n.signer, &types.DynamicFeeTx{
		ChainID:   ChainID,
		Nonce:     n.nonce,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2 * params.GWei),
		Gas:       params.TxGas,
		To:        &to,
		Value:     big.NewInt(value),
	})
	require.NoError(t, err)
	n.nonce++
	return tx
}

// MineTransfer mines a block holding a single transfer.
func (n *Node) MineTransfer(t *testing.T, to common.Address, value int64) (*types.Block, *types.Transaction) {
	tx := n.Transfer(t, to, value)
	blk, err := n.Mine(context.Background(), []*types.Transaction{tx})
	require.NoError(t, err)
	require.Len(t, blk.Transactions(), 1)
	return blk, tx
}
