// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stackedmap implements a layered map with save/restore semantics.
package stackedmap

// StackedMap keeps maps in a stack. Each level sees the key/values of the
// levels below it, and popping a level discards every Put made on it.
type StackedMap[K comparable, V any] struct {
	src    Source[K, V]
	levels []*level[K, V]
	// per key, the stack of levels holding a value for it
	keyLevels map[K][]int
}

type level[K comparable, V any] struct {
	kvs  map[K]V
	keys []K // in order of first Put
}

// Source reads keys missing from every level.
type Source[K comparable, V any] func(key K) (value V, exist bool, err error)

// New creates a StackedMap with a single base level on top of src.
func New[K comparable, V any](src Source[K, V]) *StackedMap[K, V] {
	sm := &StackedMap[K, V]{
		src:       src,
		keyLevels: make(map[K][]int),
	}
	sm.Push()
	return sm
}

// Depth returns the number of levels.
func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.levels)
}

// Push pushes a new level and returns the depth before the push.
func (sm *StackedMap[K, V]) Push() int {
	sm.levels = append(sm.levels, &level[K, V]{kvs: make(map[K]V)})
	return len(sm.levels) - 1
}

// Pop discards the top level with every Put made on it.
func (sm *StackedMap[K, V]) Pop() {
	top := sm.levels[len(sm.levels)-1]
	for key := range top.kvs {
		lvls := sm.keyLevels[key]
		if len(lvls) <= 1 {
			delete(sm.keyLevels, key)
		} else {
			sm.keyLevels[key] = lvls[:len(lvls)-1]
		}
	}
	sm.levels = sm.levels[:len(sm.levels)-1]
}

// PopTo pops levels until the depth is reduced to depth.
func (sm *StackedMap[K, V]) PopTo(depth int) {
	for len(sm.levels) > depth {
		sm.Pop()
	}
}

// Get returns the value of key from the highest level holding it, falling back to the source.
func (sm *StackedMap[K, V]) Get(key K) (V, bool, error) {
	if lvls, ok := sm.keyLevels[key]; ok {
		return sm.levels[lvls[len(lvls)-1]].kvs[key], true, nil
	}
	return sm.src(key)
}

// Put sets key on the top level. It panics if the stack is empty.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	depth := len(sm.levels) - 1
	top := sm.levels[depth]

	if _, ok := top.kvs[key]; !ok {
		sm.keyLevels[key] = append(sm.keyLevels[key], depth)
		top.keys = append(top.keys, key)
	}
	top.kvs[key] = value
}

// Merge folds every level at or above depth into the level below it, keeping
// the latest value of each key. The base level is never folded.
func (sm *StackedMap[K, V]) Merge(depth int) {
	depth = max(depth, 1)
	if depth >= len(sm.levels) {
		return
	}
	target := sm.levels[depth-1]
	for _, lvl := range sm.levels[depth:] {
		for _, key := range lvl.keys {
			if _, ok := target.kvs[key]; !ok {
				target.keys = append(target.keys, key)
			}
			target.kvs[key] = lvl.kvs[key]

			lvls := sm.keyLevels[key]
			n := len(lvls)
			for n > 0 && lvls[n-1] >= depth-1 {
				n--
			}
			sm.keyLevels[key] = append(lvls[:n], depth-1)
		}
	}
	sm.levels = sm.levels[:depth]
}

// Journal calls cb with the latest value of every key of each level, from the
// bottom level up, until cb returns false. A key written on several levels is
// reported once per level.
func (sm *StackedMap[K, V]) Journal(cb func(key K, value V) bool) {
	for _, lvl := range sm.levels {
		for _, key := range lvl.keys {
			if !cb(key, lvl.kvs[key]) {
				return
			}
		}
	}
}
