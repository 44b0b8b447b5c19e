// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/trie"
)

// Dump is the JSON exportable content of a state.
type Dump struct {
	Accounts    map[common.Address]*DumpAccount `json:"accounts"`
	BlockHashes map[uint64]common.Hash          `json:"blockHashes,omitempty"`
}

// DumpAccount is a single account of a dump. Zero storage slots are omitted.
// CodeHash is only set for accounts pointing at code whose bytes are unknown.
type DumpAccount struct {
	Nonce    hexutil.Uint64              `json:"nonce"`
	Balance  *hexutil.U256               `json:"balance"`
	Code     hexutil.Bytes               `json:"code,omitempty"`
	CodeHash *common.Hash                `json:"codeHash,omitempty"`
	Storage  map[common.Hash]common.Hash `json:"storage,omitempty"`
}

// NewDump returns an empty dump.
func NewDump() *Dump {
	return &Dump{
		Accounts:    make(map[common.Address]*DumpAccount),
		BlockHashes: make(map[uint64]common.Hash),
	}
}

func newDumpAccount(acc *Account, code []byte) *DumpAccount {
	balance := new(uint256.Int)
	if acc.Balance != nil {
		balance.Set(acc.Balance)
	}
	if code == nil {
		code = acc.Code
	}
	da := &DumpAccount{
		Nonce:   hexutil.Uint64(acc.Nonce),
		Balance: (*hexutil.U256)(balance),
		Code:    bytes.Clone(code),
	}
	if len(code) == 0 && acc.HasCode() {
		h := acc.CodeHash
		da.CodeHash = &h
	}
	return da
}

// Account converts back to a state account, code included.
func (da *DumpAccount) Account() *Account {
	acc := NewAccount()
	acc.Nonce = uint64(da.Nonce)
	if da.Balance != nil {
		acc.Balance.Set((*uint256.Int)(da.Balance))
	}
	switch {
	case len(da.Code) > 0:
		acc.Code = bytes.Clone(da.Code)
		acc.CodeHash = CodeHash(da.Code)
	case da.CodeHash != nil:
		acc.CodeHash = *da.CodeHash
	}
	return acc
}

// Copy returns a deep copy of the dump.
func (d *Dump) Copy() *Dump {
	cpy := NewDump()
	for addr, da := range d.Accounts {
		acc := *da
		if da.Balance != nil {
			b := *da.Balance
			acc.Balance = &b
		}
		acc.Code = bytes.Clone(da.Code)
		if da.CodeHash != nil {
			h := *da.CodeHash
			acc.CodeHash = &h
		}
		acc.Storage = maps.Clone(da.Storage)
		cpy.Accounts[addr] = &acc
	}
	maps.Copy(cpy.BlockHashes, d.BlockHashes)
	return cpy
}

// Root computes the world state root of the dump. Empty accounts without storage
// are not part of the trie.
func (d *Dump) Root() common.Hash {
	accounts := make(map[common.Address]*trie.Account, len(d.Accounts))
	for addr, da := range d.Accounts {
		acc := da.Account()
		if acc.IsEmpty() && len(da.Storage) == 0 {
			continue
		}
		accounts[addr] = &trie.Account{
			Nonce:    acc.Nonce,
			Balance:  acc.Balance,
			CodeHash: acc.CodeHash,
			Storage:  da.Storage,
		}
	}
	_, root := trie.StateRoot(accounts)
	return root
}

// Write encodes the dump as indented JSON.
func (d *Dump) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(d), "encode state dump")
}

// ReadDump decodes a JSON dump.
func ReadDump(r io.Reader) (*Dump, error) {
	d := NewDump()
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, errors.Wrap(err, "decode state dump")
	}
	if d.Accounts == nil {
		d.Accounts = make(map[common.Address]*DumpAccount)
	}
	if d.BlockHashes == nil {
		d.BlockHashes = make(map[uint64]common.Hash)
	}
	return d, nil
}
