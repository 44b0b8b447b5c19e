// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Account for marshal account
type Account struct {
	Balance *hexutil.U256  `json:"balance"`
	Nonce   hexutil.Uint64 `json:"nonce"`
	HasCode bool           `json:"hasCode"`
}

type GetCodeResult struct {
	Code hexutil.Bytes `json:"code"`
}

type GetStorageResult struct {
	Value common.Hash `json:"value"`
}
