// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package debug

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountOverride forces the set fields of an account.
type AccountOverride struct {
	Balance *hexutil.U256               `json:"balance,omitempty"`
	Nonce   *hexutil.Uint64             `json:"nonce,omitempty"`
	Code    *hexutil.Bytes              `json:"code,omitempty"`
	Storage map[common.Hash]common.Hash `json:"storage,omitempty"`
}

type SnapshotResult struct {
	ID hexutil.Uint64 `json:"id"`
}

type RevertResult struct {
	Reverted bool `json:"reverted"`
}

// MineRequest lists binary encoded transactions to mine into one block.
type MineRequest struct {
	Transactions []hexutil.Bytes `json:"transactions"`
}

type MineResult struct {
	Number       hexutil.Uint64 `json:"number"`
	Hash         common.Hash    `json:"hash"`
	StateRoot    common.Hash    `json:"stateRoot"`
	Transactions []common.Hash  `json:"transactions"`
}
