// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/vechain/ethdev/api/blocks"
)

// BlockMessage is pushed to block subscribers once per new block.
type BlockMessage struct {
	*blocks.JSONBlockSummary
	Transactions []common.Hash `json:"transactions"`
}

func convertBlock(blk *types.Block) *BlockMessage {
	txs := blk.Transactions()
	ids := make([]common.Hash, len(txs))
	for i, tx := range txs {
		ids[i] = tx.Hash()
	}
	return &BlockMessage{
		blocks.BuildJSONBlockSummary(blk),
		ids,
	}
}
