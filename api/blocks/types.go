// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

type JSONBlockSummary struct {
	Number           hexutil.Uint64 `json:"number"`
	Hash             common.Hash    `json:"hash"`
	ParentHash       common.Hash    `json:"parentHash"`
	Timestamp        hexutil.Uint64 `json:"timestamp"`
	Miner            common.Address `json:"miner"`
	GasLimit         hexutil.Uint64 `json:"gasLimit"`
	GasUsed          hexutil.Uint64 `json:"gasUsed"`
	BaseFee          *hexutil.Big   `json:"baseFeePerGas,omitempty"`
	StateRoot        common.Hash    `json:"stateRoot"`
	TransactionsRoot common.Hash    `json:"transactionsRoot"`
	ReceiptsRoot     common.Hash    `json:"receiptsRoot"`
	LogsBloom        types.Bloom    `json:"logsBloom"`
	Size             hexutil.Uint64 `json:"size"`
}

type JSONCollapsedBlock struct {
	*JSONBlockSummary
	Transactions []common.Hash `json:"transactions"`
}

type JSONExpandedBlock struct {
	*JSONBlockSummary
	Transactions []*types.Transaction `json:"transactions"`
}

// BuildJSONBlockSummary converts the header fields of blk.
func BuildJSONBlockSummary(blk *types.Block) *JSONBlockSummary {
	header := blk.Header()
	return &JSONBlockSummary{
		Number:           hexutil.Uint64(header.Number.Uint64()),
		Hash:             blk.Hash(),
		ParentHash:       header.ParentHash,
		Timestamp:        hexutil.Uint64(header.Time),
		Miner:            header.Coinbase,
		GasLimit:         hexutil.Uint64(header.GasLimit),
		GasUsed:          hexutil.Uint64(header.GasUsed),
		BaseFee:          (*hexutil.Big)(header.BaseFee),
		StateRoot:        header.Root,
		TransactionsRoot: header.TxHash,
		ReceiptsRoot:     header.ReceiptHash,
		LogsBloom:        header.Bloom,
		Size:             hexutil.Uint64(blk.Size()),
	}
}
