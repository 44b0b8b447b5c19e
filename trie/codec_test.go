// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageRootEmpty(t *testing.T) {
	_, root := StorageRoot(nil)
	assert.Equal(t, types.EmptyRootHash, root)

	_, root = StorageRoot(map[common.Hash]common.Hash{{1}: {}})
	assert.Equal(t, types.EmptyRootHash, root, "only zero slots")
}

func TestStorageRootSkipsZero(t *testing.T) {
	k1, k2 := common.BigToHash(common.Big1), common.BigToHash(common.Big2)
	five := common.BigToHash(common.Big3)

	_, withZero := StorageRoot(map[common.Hash]common.Hash{k1: five, k2: {}})
	_, without := StorageRoot(map[common.Hash]common.Hash{k1: five})
	assert.Equal(t, without, withZero)
	assert.NotEqual(t, types.EmptyRootHash, without)
}

func TestStorageRootEncoding(t *testing.T) {
	key := common.Hash{0xaa}
	value := common.BigToHash(uint256.NewInt(0x1234).ToBig())

	tr, root := StorageRoot(map[common.Hash]common.Hash{key: value})

	// secure trie, value is rlp of the trimmed bytes
	got := tr.MustGet(key[:])
	want, _ := rlp.EncodeToBytes([]byte{0x12, 0x34})
	assert.Equal(t, want, got)

	expected := newSecureTrie()
	expected.MustUpdate(key[:], want)
	assert.Equal(t, expected.Hash(), root)
}

func TestStorageRootFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 64)
	for range 20 {
		var storage map[common.Hash]common.Hash
		f.Fuzz(&storage)
		// force a few zero slots
		for k := range storage {
			if k[0]%4 == 0 {
				storage[k] = common.Hash{}
			}
		}

		tr, root := StorageRoot(storage)
		nonZero := make(map[common.Hash]common.Hash)
		for k, v := range storage {
			if v == (common.Hash{}) {
				assert.Nil(t, tr.MustGet(k[:]))
				continue
			}
			nonZero[k] = v
			var got []byte
			require.NoError(t, rlp.DecodeBytes(tr.MustGet(k[:]), &got))
			assert.Equal(t, common.TrimLeftZeroes(v[:]), got)
		}

		_, again := StorageRoot(nonZero)
		assert.Equal(t, root, again)
	}
}

func TestStateRoot(t *testing.T) {
	_, root := StateRoot(nil)
	assert.Equal(t, types.EmptyRootHash, root)

	accounts := map[common.Address]*Account{
		{1}: {Nonce: 1, Balance: uint256.NewInt(100)},
		{2}: {
			Balance:  uint256.NewInt(7),
			CodeHash: crypto.Keccak256Hash([]byte{0x60, 0x00}),
			Storage:  map[common.Hash]common.Hash{{1}: {2}, {3}: {}},
		},
	}

	_, r1 := StateRoot(accounts)
	_, r2 := StateRoot(accounts)
	assert.Equal(t, r1, r2, "deterministic")
	assert.NotEqual(t, types.EmptyRootHash, r1)

	accounts[common.Address{3}] = &Account{Balance: uint256.NewInt(1)}
	_, r3 := StateRoot(accounts)
	assert.NotEqual(t, r1, r3, "new account changes the root")
}

func TestStateRootLeaf(t *testing.T) {
	addr := common.Address{0xde, 0xad}
	storage := map[common.Hash]common.Hash{{1}: {9}}

	tr, root := StateRoot(map[common.Address]*Account{
		addr: {Nonce: 3, Balance: uint256.NewInt(42), Storage: storage},
	})

	acc, err := tr.GetAccount(addr)
	require.NoError(t, err)
	require.NotNil(t, acc)
	_, storageRoot := StorageRoot(storage)
	assert.Equal(t, uint64(3), acc.Nonce)
	assert.Equal(t, uint256.NewInt(42), acc.Balance)
	assert.Equal(t, storageRoot, acc.Root)
	assert.Equal(t, types.EmptyCodeHash[:], acc.CodeHash, "zero code hash means no code")

	enc, err := rlp.EncodeToBytes(&types.StateAccount{
		Nonce:    3,
		Balance:  uint256.NewInt(42),
		Root:     storageRoot,
		CodeHash: types.EmptyCodeHash[:],
	})
	require.NoError(t, err)
	expected := newSecureTrie()
	expected.MustUpdate(addr[:], enc)
	assert.Equal(t, expected.Hash(), root)
}

func TestLogsHash(t *testing.T) {
	assert.Equal(t, types.EmptyUncleHash, LogsHash(nil), "keccak of the empty rlp list")

	logs := []*types.Log{{
		Address: common.Address{1},
		Topics:  []common.Hash{{2}},
		Data:    []byte{3},
		// not part of the commitment
		BlockNumber: 10,
	}}
	enc, err := rlp.EncodeToBytes([]any{[]any{common.Address{1}, []common.Hash{{2}}, []byte{3}}})
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash(enc), LogsHash(logs))
}
