// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/vechain/ethdev/chain"
)

// TxMeta is the position of a mined transaction.
type TxMeta struct {
	BlockHash        common.Hash    `json:"blockHash"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	TransactionIndex hexutil.Uint   `json:"transactionIndex"`
}

// Transaction is a mined transaction with its position.
type Transaction struct {
	Tx   *types.Transaction `json:"tx"`
	Meta TxMeta             `json:"meta"`
}

// RawTransaction carries a transaction in its binary encoding.
type RawTransaction struct {
	Raw hexutil.Bytes `json:"raw"`
}

func convertTransaction(mined *chain.MinedTransaction) *Transaction {
	return &Transaction{
		Tx: mined.Tx,
		Meta: TxMeta{
			BlockHash:        mined.BlockHash,
			BlockNumber:      hexutil.Uint64(mined.BlockNumber),
			TransactionIndex: hexutil.Uint(mined.Index),
		},
	}
}

// SendResult is the outcome of a sent transaction, mined on arrival.
type SendResult struct {
	ID          common.Hash    `json:"id"`
	BlockHash   common.Hash    `json:"blockHash"`
	BlockNumber hexutil.Uint64 `json:"blockNumber"`
}
