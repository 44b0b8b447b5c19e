// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package backend

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/state"
)

// ErrContractExecution is returned by TransferExecutor for transactions that need an EVM.
var ErrContractExecution = errors.New("contract execution not supported")

// TransferExecutor executes signed value transfers between accounts without code.
// The base fee is burnt and the tip is paid to the coinbase.
type TransferExecutor struct {
	signer types.Signer
}

// NewTransferExecutor creates an executor accepting transactions signed for chainID.
func NewTransferExecutor(chainID *big.Int) *TransferExecutor {
	return &TransferExecutor{signer: types.LatestSignerForChainID(chainID)}
}

func (e *TransferExecutor) gasPrice(header *types.Header, tx *types.Transaction) (*big.Int, error) {
	if header.BaseFee == nil {
		return tx.GasPrice(), nil
	}
	if tx.GasFeeCapIntCmp(header.BaseFee) < 0 {
		return nil, errors.Errorf("max fee per gas less than block base fee: have %v, want %v", tx.GasFeeCap(), header.BaseFee)
	}
	tip, err := tx.EffectiveGasTip(header.BaseFee)
	if err != nil {
		return nil, errors.Wrap(err, "effective tip")
	}
	return tip.Add(tip, header.BaseFee), nil
}

func (e *TransferExecutor) Execute(_ context.Context, db state.Store, header *types.Header, tx *types.Transaction) (*types.Receipt, error) {
	from, err := types.Sender(e.signer, tx)
	if err != nil {
		return nil, errors.Wrap(err, "recover sender")
	}
	if tx.To() == nil || len(tx.Data()) > 0 {
		return nil, ErrContractExecution
	}
	to := *tx.To()
	if db.GetAccount(to).HasCode() {
		return nil, ErrContractExecution
	}
	if tx.Gas() < params.TxGas {
		return nil, errors.Errorf("intrinsic gas too low: have %d, want %d", tx.Gas(), params.TxGas)
	}

	sender := db.GetAccount(from)
	if tx.Nonce() != sender.Nonce {
		return nil, errors.Errorf("invalid nonce: have %d, want %d", tx.Nonce(), sender.Nonce)
	}

	price, err := e.gasPrice(header, tx)
	if err != nil {
		return nil, err
	}
	fee := new(big.Int).Mul(price, new(big.Int).SetUint64(params.TxGas))
	cost, overflow := uint256.FromBig(new(big.Int).Add(fee, tx.Value()))
	if overflow {
		return nil, errors.New("transaction cost overflows")
	}
	if sender.Balance.Lt(cost) {
		return nil, errors.Errorf("insufficient funds: have %v, want %v", sender.Balance, cost)
	}

	db.SetNonce(from, sender.Nonce+1)
	db.SetBalance(from, new(uint256.Int).Sub(sender.Balance, cost))

	// read after the debit, from and to may be the same account
	value := uint256.MustFromBig(tx.Value())
	db.SetBalance(to, new(uint256.Int).Add(db.GetAccount(to).Balance, value))

	if header.BaseFee != nil {
		tip := new(big.Int).Sub(price, header.BaseFee)
		if tip.Sign() > 0 {
			reward := uint256.MustFromBig(tip.Mul(tip, new(big.Int).SetUint64(params.TxGas)))
			db.SetBalance(header.Coinbase, new(uint256.Int).Add(db.GetAccount(header.Coinbase).Balance, reward))
		}
	}

	return &types.Receipt{
		Type:              tx.Type(),
		Status:            types.ReceiptStatusSuccessful,
		GasUsed:           params.TxGas,
		EffectiveGasPrice: price,
		Logs:              []*types.Log{},
	}, nil
}
