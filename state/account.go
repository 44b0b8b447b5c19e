// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Account is the world state representation of an account.
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash common.Hash
	// Code optionally carries the code of CodeHash.
	Code []byte
}

// NewAccount returns the default account: zero nonce, zero balance and no code.
func NewAccount() *Account {
	return &Account{
		Balance:  new(uint256.Int),
		CodeHash: types.EmptyCodeHash,
	}
}

// IsEmpty returns if an account is empty, as defined by EIP-161.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 &&
		(a.Balance == nil || a.Balance.IsZero()) &&
		(a.CodeHash == types.EmptyCodeHash || a.CodeHash == common.Hash{})
}

// HasCode reports whether the account is a contract.
func (a *Account) HasCode() bool {
	return a.CodeHash != types.EmptyCodeHash && a.CodeHash != common.Hash{}
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := *a
	if a.Balance != nil {
		cpy.Balance = new(uint256.Int).Set(a.Balance)
	} else {
		cpy.Balance = new(uint256.Int)
	}
	if a.Code != nil {
		cpy.Code = bytes.Clone(a.Code)
	}
	return &cpy
}

// CodeHash returns the hash of code. Empty code maps to types.EmptyCodeHash
// without hashing.
func CodeHash(code []byte) common.Hash {
	if len(code) == 0 {
		return types.EmptyCodeHash
	}
	return crypto.Keccak256Hash(code)
}
