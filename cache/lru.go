// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides typed caches with hit/miss accounting.
package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// LRU is a typed, thread safe LRU cache backed by golang-lru.
type LRU[K comparable, V any] struct {
	cache *lru.Cache
	stats Stats
}

// NewLRU creates a cache holding at most maxSize entries.
// maxSize must be > 0.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, errors.Wrap(err, "new lru")
	}
	return &LRU[K, V]{cache: c}, nil
}

// Get looks up key and records a hit or miss.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		l.stats.Hit()
		return v.(V), true
	}
	l.stats.Miss()
	var zero V
	return zero, false
}

// Add inserts or replaces the value of key. It reports whether an entry was evicted.
func (l *LRU[K, V]) Add(key K, value V) bool {
	return l.cache.Add(key, value)
}

// Remove drops key from the cache.
func (l *LRU[K, V]) Remove(key K) {
	l.cache.Remove(key)
}

// Purge drops every entry.
func (l *LRU[K, V]) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// Keys returns the cached keys, oldest first.
func (l *LRU[K, V]) Keys() []K {
	raw := l.cache.Keys()
	keys := make([]K, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, k.(K))
	}
	return keys
}

// Stats returns the hit/miss counters of the cache.
func (l *LRU[K, V]) Stats() *Stats {
	return &l.stats
}

// GetOrLoad returns the cached value of key, calling load on a miss.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}
	l.cache.Add(key, v)
	return v, nil
}
