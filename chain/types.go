// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// MinedTransaction is a transaction included in a stored block.
type MinedTransaction struct {
	Tx          *types.Transaction
	Receipt     *types.Receipt
	BlockHash   common.Hash
	BlockNumber uint64
	Index       uint
}

type blockEntry struct {
	block    *types.Block
	receipts types.Receipts
}
