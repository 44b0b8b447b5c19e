// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package trie computes consensus compatible commitments of the world state.
// Keys are hashed before insertion (secure trie) and maps are visited in
// ascending key order, so identical inputs always produce identical roots.
package trie

import (
	"bytes"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	ethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/holiman/uint256"
	"github.com/vechain/ethdev/co"
)

// Account is the trie input of a single account.
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash common.Hash
	Storage  map[common.Hash]common.Hash
}

func newSecureTrie() *ethtrie.StateTrie {
	db := triedb.NewDatabase(rawdb.NewMemoryDatabase(), nil)
	tr, err := ethtrie.NewStateTrie(ethtrie.TrieID(types.EmptyRootHash), db)
	if err != nil {
		// opening the empty root never touches the database
		panic(err)
	}
	return tr
}

// StorageRoot builds the storage trie of an account. Zero valued slots are skipped.
func StorageRoot(storage map[common.Hash]common.Hash) (*ethtrie.StateTrie, common.Hash) {
	tr := newSecureTrie()

	keys := make([]common.Hash, 0, len(storage))
	for k, v := range storage {
		if v != (common.Hash{}) {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b common.Hash) int { return bytes.Compare(a[:], b[:]) })

	for _, k := range keys {
		v := storage[k]
		enc, err := rlp.EncodeToBytes(common.TrimLeftZeroes(v[:]))
		if err != nil {
			panic(err)
		}
		tr.MustUpdate(k[:], enc)
	}
	return tr, tr.Hash()
}

// StateRoot builds the world state trie. Storage roots are computed in parallel,
// accounts are inserted in ascending address order.
func StateRoot(accounts map[common.Address]*Account) (*ethtrie.StateTrie, common.Hash) {
	addrs := make([]common.Address, 0, len(accounts))
	for addr := range accounts {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b common.Address) int { return bytes.Compare(a[:], b[:]) })

	roots := make([]common.Hash, len(addrs))
	<-co.Parallel(func(queue chan<- func()) {
		for i, addr := range addrs {
			storage := accounts[addr].Storage
			if len(storage) == 0 {
				roots[i] = types.EmptyRootHash
				continue
			}
			queue <- func() {
				_, roots[i] = StorageRoot(storage)
			}
		}
	})

	tr := newSecureTrie()
	for i, addr := range addrs {
		acc := accounts[addr]
		balance := acc.Balance
		if balance == nil {
			balance = new(uint256.Int)
		}
		codeHash := acc.CodeHash
		if codeHash == (common.Hash{}) {
			codeHash = types.EmptyCodeHash
		}
		if err := tr.UpdateAccount(addr, &types.StateAccount{
			Nonce:    acc.Nonce,
			Balance:  balance,
			Root:     roots[i],
			CodeHash: codeHash[:],
		}, 0); err != nil {
			panic(err)
		}
	}
	return tr, tr.Hash()
}

// LogsHash returns the keccak256 of the RLP list of (address, topics, data) triples.
func LogsHash(logs []*types.Log) common.Hash {
	if logs == nil {
		logs = []*types.Log{}
	}
	enc, err := rlp.EncodeToBytes(logs)
	if err != nil {
		panic(err)
	}
	return crypto.Keccak256Hash(enc)
}
