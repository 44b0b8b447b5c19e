// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/vechain/ethdev/log"
	"github.com/vechain/ethdev/stackedmap"
)

var logger = log.WithContext("pkg", "state")

type checkpoint struct {
	id    SnapshotID
	depth int
}

// Overlay shadows a read only base with in-memory writes.
// The base is never written. It is safe for concurrent readers and a single writer.
type Overlay struct {
	mu          sync.RWMutex
	base        Reader
	sm          *stackedmap.StackedMap[any, any]
	checkpoints []checkpoint
	nextID      SnapshotID
	// block hashes are history, not state, and survive reverts
	blockHashes map[uint64]common.Hash
}

var (
	_ Store  = (*Overlay)(nil)
	_ Dumper = (*Overlay)(nil)
	_ Loader = (*Overlay)(nil)
)

// NewOverlay creates an overlay over base.
func NewOverlay(base Reader) *Overlay {
	o := &Overlay{
		base:        base,
		nextID:      1,
		blockHashes: make(map[uint64]common.Hash),
	}
	o.sm = stackedmap.New(o.baseGetter)
	return o
}

// NewMemory creates a standalone in-memory state.
func NewMemory() *Overlay {
	return NewOverlay(EmptyReader())
}

// baseGetter implements stackedmap.Source.
func (o *Overlay) baseGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case common.Address:
		return o.base.GetAccount(k), true, nil
	case codeKey:
		return o.base.GetCode(common.Hash(k)), true, nil
	case storageKey:
		return o.base.GetStorage(k.addr, k.key), true, nil
	}
	panic(fmt.Errorf("unexpected key type %T", key))
}

// get reads through the stacked map. The base never fails.
func (o *Overlay) get(key any) any {
	v, _, _ := o.sm.Get(key)
	return v
}

// getAccount returns the stored account, which must not be modified.
func (o *Overlay) getAccount(addr common.Address) *Account {
	return o.get(addr).(*Account)
}

func (o *Overlay) GetAccount(addr common.Address) *Account {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.getAccount(addr).Copy()
}

func (o *Overlay) GetCode(codeHash common.Hash) []byte {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return bytes.Clone(o.get(codeKey(codeHash)).([]byte))
}

func (o *Overlay) GetStorage(addr common.Address, key common.Hash) common.Hash {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.get(storageKey{addr, key}).(common.Hash)
}

func (o *Overlay) GetBlockHash(num uint64) common.Hash {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.getBlockHash(num)
}

func (o *Overlay) getBlockHash(num uint64) common.Hash {
	if h, ok := o.blockHashes[num]; ok {
		return h
	}
	return o.base.GetBlockHash(num)
}

// putAccount stores a private copy of acc, and its code if carried.
func (o *Overlay) putAccount(addr common.Address, acc *Account) {
	cpy := acc.Copy()
	if len(cpy.Code) > 0 {
		cpy.CodeHash = CodeHash(cpy.Code)
		o.sm.Put(codeKey(cpy.CodeHash), bytes.Clone(cpy.Code))
	}
	o.sm.Put(addr, cpy)
}

func (o *Overlay) SetAccount(addr common.Address, acc *Account) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.putAccount(addr, acc)
}

func (o *Overlay) SetNonce(addr common.Address, nonce uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	acc := o.getAccount(addr).Copy()
	acc.Nonce = nonce
	o.sm.Put(addr, acc)
}

func (o *Overlay) SetBalance(addr common.Address, balance *uint256.Int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	acc := o.getAccount(addr).Copy()
	if balance == nil {
		acc.Balance.Clear()
	} else {
		acc.Balance.Set(balance)
	}
	o.sm.Put(addr, acc)
}

func (o *Overlay) SetCode(addr common.Address, code []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()

	acc := o.getAccount(addr).Copy()
	acc.CodeHash = CodeHash(code)
	if len(code) == 0 {
		acc.Code = nil
	} else {
		acc.Code = bytes.Clone(code)
		o.sm.Put(codeKey(acc.CodeHash), bytes.Clone(code))
	}
	o.sm.Put(addr, acc)
}

func (o *Overlay) SetStorage(addr common.Address, key, value common.Hash) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sm.Put(storageKey{addr, key}, value)
}

func (o *Overlay) SetBlockHash(num uint64, hash common.Hash) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.blockHashes[num] = hash
}

func (o *Overlay) Snapshot() SnapshotID {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	o.checkpoints = append(o.checkpoints, checkpoint{id: id, depth: o.sm.Push()})
	metricSnapshotCount().AddWithLabel(1, map[string]string{"op": "snapshot", "result": "ok"})
	return id
}

func (o *Overlay) Revert(id SnapshotID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	i, ok := o.checkpointIndex(id)
	if !ok {
		logger.Debug("revert to unknown snapshot", "id", id)
		metricSnapshotCount().AddWithLabel(1, map[string]string{"op": "revert", "result": "stale"})
		return false
	}
	o.sm.PopTo(o.checkpoints[i].depth)
	o.checkpoints = o.checkpoints[:i]
	metricSnapshotCount().AddWithLabel(1, map[string]string{"op": "revert", "result": "ok"})
	return true
}

// Commit keeps every write made since id and closes id with every later
// snapshot. It returns false and changes nothing if id is not open.
func (o *Overlay) Commit(id SnapshotID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	i, ok := o.checkpointIndex(id)
	if !ok {
		metricSnapshotCount().AddWithLabel(1, map[string]string{"op": "commit", "result": "stale"})
		return false
	}
	o.sm.Merge(o.checkpoints[i].depth)
	o.checkpoints = o.checkpoints[:i]
	metricSnapshotCount().AddWithLabel(1, map[string]string{"op": "commit", "result": "ok"})
	return true
}

// checkpointIndex locates the open snapshot id. Caller must hold the lock.
func (o *Overlay) checkpointIndex(id SnapshotID) (int, bool) {
	i := sort.Search(len(o.checkpoints), func(i int) bool {
		return o.checkpoints[i].id >= id
	})
	return i, i < len(o.checkpoints) && o.checkpoints[i].id == id
}

// flatten collapses the journal. Caller must hold the lock.
func (o *Overlay) flatten() *changes {
	c := newChanges()
	o.sm.Journal(func(key, value any) bool {
		c.put(key, value)
		return true
	})
	maps.Copy(c.blockHashes, o.blockHashes)
	return c
}

// Freeze returns an immutable copy of the overrides over a frozen copy of the base.
func (o *Overlay) Freeze() Reader {
	o.mu.RLock()
	defer o.mu.RUnlock()

	base := o.base
	if f, ok := base.(freezer); ok {
		base = f.Freeze()
	}
	return &frozen{base: base, c: o.flatten()}
}

// Dump enumerates the state. It fails if the base is not enumerable.
func (o *Overlay) Dump() (*Dump, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	d, ok := dumpOf(o.base)
	if !ok {
		return nil, false
	}
	o.flatten().applyTo(d, (*lockedOverlay)(o))
	return d, true
}

// StateRoot computes the world state root when the base is enumerable.
func (o *Overlay) StateRoot() (common.Hash, bool) {
	d, ok := o.Dump()
	if !ok {
		return common.Hash{}, false
	}
	return d.Root(), true
}

// Load writes the content of d on top of the current state.
func (o *Overlay) Load(d *Dump) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for addr, da := range d.Accounts {
		o.putAccount(addr, da.Account())
		for k, v := range da.Storage {
			o.sm.Put(storageKey{addr, k}, v)
		}
	}
	maps.Copy(o.blockHashes, d.BlockHashes)
}

// lockedOverlay reads an overlay whose lock is already held.
type lockedOverlay Overlay

func (l *lockedOverlay) o() *Overlay { return (*Overlay)(l) }

func (l *lockedOverlay) GetAccount(addr common.Address) *Account {
	return l.o().getAccount(addr).Copy()
}

func (l *lockedOverlay) GetCode(codeHash common.Hash) []byte {
	return l.o().get(codeKey(codeHash)).([]byte)
}

func (l *lockedOverlay) GetStorage(addr common.Address, key common.Hash) common.Hash {
	return l.o().get(storageKey{addr, key}).(common.Hash)
}

func (l *lockedOverlay) GetBlockHash(num uint64) common.Hash {
	return l.o().getBlockHash(num)
}
