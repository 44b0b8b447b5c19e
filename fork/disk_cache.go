// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fork

import (
	"context"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/vechain/ethdev/lvldb"
	"github.com/vechain/ethdev/state"
)

const (
	accountPrefix   = byte('a')
	storagePrefix   = byte('s')
	blockHashPrefix = byte('h')
)

// DiskCache is a Remote persisting the answers of another Remote, so a restarted
// fork of the same chain does not fetch them again. Every answer is bound to a
// block number, hence entries never expire. A db should only hold a single chain.
type DiskCache struct {
	remote Remote
	db     *lvldb.LevelDB
}

var _ Remote = (*DiskCache)(nil)

func NewDiskCache(remote Remote, db *lvldb.LevelDB) *DiskCache {
	return &DiskCache{remote, db}
}

type diskAccount struct {
	Nonce   uint64
	Balance []byte
	Code    []byte
}

func blockKey(prefix byte, block uint64, extra ...[]byte) []byte {
	key := binary.BigEndian.AppendUint64([]byte{prefix}, block)
	for _, e := range extra {
		key = append(key, e...)
	}
	return key
}

// load returns the cached value of key, or fetches and stores it.
func load[V any](c *DiskCache, kind string, key []byte, decode func([]byte) (V, error), encode func(V) ([]byte, error), fetch func() (V, error)) (V, error) {
	if data, err := c.db.Get(key); err == nil {
		if v, err := decode(data); err == nil {
			metricDiskCacheCount().AddWithLabel(1, map[string]string{"type": kind, "result": "hit"})
			return v, nil
		}
		logger.Warn("corrupted disk cache entry", "type", kind, "key", common.Bytes2Hex(key))
	} else if !c.db.IsNotFound(err) {
		logger.Warn("failed to read disk cache", "type", kind, "err", err)
	}
	metricDiskCacheCount().AddWithLabel(1, map[string]string{"type": kind, "result": "miss"})

	v, err := fetch()
	if err != nil {
		return v, err
	}
	data, err := encode(v)
	if err == nil {
		err = c.db.Put(key, data)
	}
	if err != nil {
		logger.Warn("failed to write disk cache", "type", kind, "err", err)
	}
	return v, nil
}

func (c *DiskCache) Account(ctx context.Context, addr common.Address, block uint64) (*state.Account, error) {
	return load(c, "account", blockKey(accountPrefix, block, addr[:]),
		func(data []byte) (*state.Account, error) {
			var da diskAccount
			if err := rlp.DecodeBytes(data, &da); err != nil {
				return nil, err
			}
			acc := state.NewAccount()
			acc.Nonce = da.Nonce
			acc.Balance = new(uint256.Int).SetBytes(da.Balance)
			if len(da.Code) > 0 {
				acc.Code = da.Code
				acc.CodeHash = state.CodeHash(da.Code)
			}
			return acc, nil
		},
		func(acc *state.Account) ([]byte, error) {
			return rlp.EncodeToBytes(&diskAccount{
				Nonce:   acc.Nonce,
				Balance: acc.Balance.Bytes(),
				Code:    acc.Code,
			})
		},
		func() (*state.Account, error) {
			return c.remote.Account(ctx, addr, block)
		})
}

func decodeHash(data []byte) (common.Hash, error) {
	return common.BytesToHash(data), nil
}

func encodeHash(h common.Hash) ([]byte, error) {
	return h.Bytes(), nil
}

func (c *DiskCache) Storage(ctx context.Context, addr common.Address, key common.Hash, block uint64) (common.Hash, error) {
	return load(c, "storage", blockKey(storagePrefix, block, addr[:], key[:]), decodeHash, encodeHash,
		func() (common.Hash, error) {
			return c.remote.Storage(ctx, addr, key, block)
		})
}

func (c *DiskCache) BlockHash(ctx context.Context, num uint64) (common.Hash, error) {
	return load(c, "blockhash", blockKey(blockHashPrefix, num), decodeHash, encodeHash,
		func() (common.Hash, error) {
			return c.remote.BlockHash(ctx, num)
		})
}
