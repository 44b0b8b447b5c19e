// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fork

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/lvldb"
)

func TestDiskCache(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	remote := &mockRemote{}
	remote.On("Account", mock.Anything, alice, uint64(100)).Return(remoteAccount(7, []byte{0x60}), nil).Once()
	remote.On("Storage", mock.Anything, alice, common.Hash{1}, uint64(100)).Return(common.Hash{2}, nil).Once()
	remote.On("BlockHash", mock.Anything, uint64(99)).Return(common.Hash{0x63}, nil).Once()

	dc := NewDiskCache(remote, db)
	ctx := context.Background()
	for range 2 {
		acc, err := dc.Account(ctx, alice, 100)
		require.NoError(t, err)
		assert.Equal(t, remoteAccount(7, []byte{0x60}), acc)

		v, err := dc.Storage(ctx, alice, common.Hash{1}, 100)
		require.NoError(t, err)
		assert.Equal(t, common.Hash{2}, v)

		h, err := dc.BlockHash(ctx, 99)
		require.NoError(t, err)
		assert.Equal(t, common.Hash{0x63}, h)
	}
	remote.AssertExpectations(t)

	// another block is another entry
	remote.On("Account", mock.Anything, alice, uint64(101)).Return(remoteAccount(8, nil), nil).Once()
	acc, err := dc.Account(ctx, alice, 101)
	require.NoError(t, err)
	assert.Equal(t, remoteAccount(8, nil), acc)
	remote.AssertExpectations(t)
}

func TestDiskCacheErrorsNotStored(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	remote := &mockRemote{}
	remote.On("Storage", mock.Anything, alice, common.Hash{1}, uint64(100)).Return(common.Hash{}, errors.New("boom")).Once()
	remote.On("Storage", mock.Anything, alice, common.Hash{1}, uint64(100)).Return(common.Hash{3}, nil).Once()

	dc := NewDiskCache(remote, db)
	_, err = dc.Storage(context.Background(), alice, common.Hash{1}, 100)
	assert.Error(t, err)
	v, err := dc.Storage(context.Background(), alice, common.Hash{1}, 100)
	require.NoError(t, err)
	assert.Equal(t, common.Hash{3}, v)
	remote.AssertExpectations(t)
}

func TestDiskCacheSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache")
	db, err := lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)

	remote := &mockRemote{}
	remote.On("Account", mock.Anything, alice, uint64(100)).Return(remoteAccount(7, nil), nil).Once()
	_, err = NewDiskCache(remote, db).Account(context.Background(), alice, 100)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = lvldb.New(path, lvldb.Options{})
	require.NoError(t, err)
	defer db.Close()

	// a fork on top of the reopened cache never reaches the remote
	store := New(context.Background(), NewDiskCache(&mockRemote{}, db), pin)
	defer store.Close()
	assert.Equal(t, uint64(7), store.GetAccount(alice).Balance.Uint64())
}
