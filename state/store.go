// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Reader is the read only view of a world state.
// Reads never fail, absent data reads as its default value.
type Reader interface {
	// GetAccount returns a copy of the account, or the default account if absent.
	GetAccount(addr common.Address) *Account
	// GetCode returns the code of the given hash, nil if unknown.
	GetCode(codeHash common.Hash) []byte
	// GetStorage returns the slot value, zero if absent.
	GetStorage(addr common.Address, key common.Hash) common.Hash
	// GetBlockHash returns the hash of the block, zero if unknown.
	GetBlockHash(num uint64) common.Hash
}

// SnapshotID identifies a snapshot of a Store. IDs of a store are strictly increasing.
type SnapshotID uint64

// Store is a mutable world state with snapshot/revert support.
// Writes never fail; validation is the business of the caller.
type Store interface {
	Reader

	// SetAccount fully replaces the account. If acc.Code is set, the code is stored too
	// and the code hash follows it.
	SetAccount(addr common.Address, acc *Account)
	SetNonce(addr common.Address, nonce uint64)
	SetBalance(addr common.Address, balance *uint256.Int)
	// SetCode stores code and points the account's code hash at it.
	SetCode(addr common.Address, code []byte)
	// SetStorage writes a slot. Writing zero deletes the slot for root computing.
	SetStorage(addr common.Address, key, value common.Hash)
	// SetBlockHash records a block hash. Block hashes are not reverted.
	SetBlockHash(num uint64, hash common.Hash)

	// Snapshot captures the current state.
	Snapshot() SnapshotID
	// Revert restores the state captured by id and discards id with every later
	// snapshot. It returns false and changes nothing if id is not open.
	Revert(id SnapshotID) bool
	// Commit keeps the writes made since id and closes id with every later
	// snapshot. It returns false if id is not open.
	Commit(id SnapshotID) bool

	// StateRoot returns the world state root if the store is able to enumerate
	// its content.
	StateRoot() (common.Hash, bool)
	// Freeze returns a read only copy of the current state, unaffected by
	// later writes.
	Freeze() Reader
}

// Dumper is implemented by states able to enumerate their content.
// The bool result is false when the content is not enumerable, for example
// when part of it lives on a remote node.
type Dumper interface {
	Dump() (*Dump, bool)
}

// Loader is implemented by stores able to import a dump.
type Loader interface {
	Load(d *Dump)
}

type freezer interface {
	Freeze() Reader
}

type emptyReader struct{}

// EmptyReader returns a reader of the empty state.
func EmptyReader() Reader { return emptyReader{} }

func (emptyReader) GetAccount(common.Address) *Account                { return NewAccount() }
func (emptyReader) GetCode(common.Hash) []byte                        { return nil }
func (emptyReader) GetStorage(common.Address, common.Hash) common.Hash { return common.Hash{} }
func (emptyReader) GetBlockHash(uint64) common.Hash                   { return common.Hash{} }
func (emptyReader) Dump() (*Dump, bool)                               { return NewDump(), true }
