// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"maps"

	"github.com/ethereum/go-ethereum/common"
)

// keys of the stacked map
type (
	codeKey    common.Hash
	storageKey struct {
		addr common.Address
		key  common.Hash
	}
)

// changes is the flattened journal of an overlay, latest value per key.
type changes struct {
	accounts    map[common.Address]*Account
	codes       map[common.Hash][]byte
	storage     map[common.Address]map[common.Hash]common.Hash
	blockHashes map[uint64]common.Hash
}

func newChanges() *changes {
	return &changes{
		accounts:    make(map[common.Address]*Account),
		codes:       make(map[common.Hash][]byte),
		storage:     make(map[common.Address]map[common.Hash]common.Hash),
		blockHashes: make(map[uint64]common.Hash),
	}
}

func (c *changes) put(key, value any) {
	switch k := key.(type) {
	case common.Address:
		c.accounts[k] = value.(*Account)
	case codeKey:
		c.codes[common.Hash(k)] = value.([]byte)
	case storageKey:
		slots := c.storage[k.addr]
		if slots == nil {
			slots = make(map[common.Hash]common.Hash)
			c.storage[k.addr] = slots
		}
		slots[k.key] = value.(common.Hash)
	}
}

// applyTo merges the changes into d. r resolves accounts and codes not carried by the changes.
func (c *changes) applyTo(d *Dump, r Reader) {
	entry := func(addr common.Address) *DumpAccount {
		if da, ok := d.Accounts[addr]; ok {
			return da
		}
		acc := r.GetAccount(addr)
		var code []byte
		if acc.Code == nil && acc.HasCode() {
			code = r.GetCode(acc.CodeHash)
		}
		da := newDumpAccount(acc, code)
		d.Accounts[addr] = da
		return da
	}

	for addr, acc := range c.accounts {
		code := acc.Code
		if code == nil && acc.HasCode() {
			if code = c.codes[acc.CodeHash]; code == nil {
				code = r.GetCode(acc.CodeHash)
			}
		}
		da := entry(addr)
		storage := da.Storage
		*da = *newDumpAccount(acc, code)
		da.Storage = storage
	}
	for addr, slots := range c.storage {
		da := entry(addr)
		for k, v := range slots {
			if v == (common.Hash{}) {
				delete(da.Storage, k)
				continue
			}
			if da.Storage == nil {
				da.Storage = make(map[common.Hash]common.Hash)
			}
			da.Storage[k] = v
		}
	}
	maps.Copy(d.BlockHashes, c.blockHashes)
}

// frozen is an immutable flattened overlay over a frozen base.
type frozen struct {
	base Reader
	c    *changes
}

var (
	_ Reader = (*frozen)(nil)
	_ Dumper = (*frozen)(nil)
)

func (f *frozen) GetAccount(addr common.Address) *Account {
	if acc, ok := f.c.accounts[addr]; ok {
		return acc.Copy()
	}
	return f.base.GetAccount(addr)
}

func (f *frozen) GetCode(codeHash common.Hash) []byte {
	if code, ok := f.c.codes[codeHash]; ok {
		return bytes.Clone(code)
	}
	return f.base.GetCode(codeHash)
}

func (f *frozen) GetStorage(addr common.Address, key common.Hash) common.Hash {
	if v, ok := f.c.storage[addr][key]; ok {
		return v
	}
	return f.base.GetStorage(addr, key)
}

func (f *frozen) GetBlockHash(num uint64) common.Hash {
	if h, ok := f.c.blockHashes[num]; ok {
		return h
	}
	return f.base.GetBlockHash(num)
}

func (f *frozen) Dump() (*Dump, bool) {
	d, ok := dumpOf(f.base)
	if !ok {
		return nil, false
	}
	f.c.applyTo(d, f)
	return d, true
}

// dumpOf dumps r if it is enumerable.
func dumpOf(r Reader) (*Dump, bool) {
	if dumper, ok := r.(Dumper); ok {
		return dumper.Dump()
	}
	return nil, false
}
