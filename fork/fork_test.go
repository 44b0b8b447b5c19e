// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fork

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/state"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Account(ctx context.Context, addr common.Address, block uint64) (*state.Account, error) {
	args := m.Called(ctx, addr, block)
	acc, _ := args.Get(0).(*state.Account)
	return acc, args.Error(1)
}

func (m *mockRemote) Storage(ctx context.Context, addr common.Address, key common.Hash, block uint64) (common.Hash, error) {
	args := m.Called(ctx, addr, key, block)
	return args.Get(0).(common.Hash), args.Error(1)
}

func (m *mockRemote) BlockHash(ctx context.Context, num uint64) (common.Hash, error) {
	args := m.Called(ctx, num)
	return args.Get(0).(common.Hash), args.Error(1)
}

var (
	pin   = Pin{Number: 100, Hash: common.Hash{0x64}}
	alice = common.Address{0xa1}
)

func remoteAccount(balance uint64, code []byte) *state.Account {
	acc := state.NewAccount()
	acc.Balance = uint256.NewInt(balance)
	if len(code) > 0 {
		acc.Code = code
		acc.CodeHash = state.CodeHash(code)
	}
	return acc
}

func newStore(t *testing.T, remote Remote) *Store {
	s := New(context.Background(), remote, pin)
	t.Cleanup(s.Close)
	return s
}

func TestFetchOnce(t *testing.T) {
	remote := &mockRemote{}
	code := []byte{0x60, 0x00}
	remote.On("Account", mock.Anything, alice, pin.Number).Return(remoteAccount(50, code), nil).Once()
	remote.On("Storage", mock.Anything, alice, common.Hash{1}, pin.Number).Return(common.Hash{2}, nil).Once()

	s := newStore(t, remote)
	for range 3 {
		assert.Equal(t, uint256.NewInt(50), s.GetAccount(alice).Balance)
		assert.Equal(t, common.Hash{2}, s.GetStorage(alice, common.Hash{1}))
	}
	assert.Equal(t, code, s.GetCode(state.CodeHash(code)))

	remote.AssertNumberOfCalls(t, "Account", 1)
	remote.AssertNumberOfCalls(t, "Storage", 1)

	_, hit, miss := s.Stats().Stats()
	assert.Equal(t, int64(4), hit)
	assert.Equal(t, int64(2), miss)
}

func TestFailedFetchNotCached(t *testing.T) {
	remote := &mockRemote{}
	remote.On("Account", mock.Anything, alice, pin.Number).Return(nil, errors.New("unreachable")).Once()
	remote.On("Account", mock.Anything, alice, pin.Number).Return(remoteAccount(7, nil), nil).Once()

	s := newStore(t, remote)

	acc := s.GetAccount(alice)
	assert.True(t, acc.Balance.IsZero(), "failure reads as default")

	acc = s.GetAccount(alice)
	assert.Equal(t, uint256.NewInt(7), acc.Balance, "retried")
	s.GetAccount(alice)
	remote.AssertNumberOfCalls(t, "Account", 2)
}

func TestBlockHash(t *testing.T) {
	remote := &mockRemote{}
	remote.On("BlockHash", mock.Anything, uint64(99)).Return(common.Hash{0x63}, nil).Once()

	s := newStore(t, remote)
	assert.Equal(t, pin.Hash, s.GetBlockHash(pin.Number))
	assert.Equal(t, common.Hash{0x63}, s.GetBlockHash(99))
	assert.Equal(t, common.Hash{0x63}, s.GetBlockHash(99))
	assert.Equal(t, common.Hash{}, s.GetBlockHash(101))

	// local blocks on top of the fork
	s.SetBlockHash(101, common.Hash{0x65})
	assert.Equal(t, common.Hash{0x65}, s.GetBlockHash(101))

	remote.AssertNumberOfCalls(t, "BlockHash", 1)
}

func TestConcurrentMissesFetchOnce(t *testing.T) {
	remote := &mockRemote{}
	remote.On("Account", mock.Anything, alice, pin.Number).
		WaitUntil(time.After(100*time.Millisecond)).
		Return(remoteAccount(1, nil), nil)

	s := newStore(t, remote)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, uint256.NewInt(1), s.GetAccount(alice).Balance)
		}()
	}
	wg.Wait()
	remote.AssertNumberOfCalls(t, "Account", 1)
}

func TestForkScenario(t *testing.T) {
	remote := &mockRemote{}
	remote.On("Account", mock.Anything, alice, pin.Number).Return(remoteAccount(1000, nil), nil).Once()

	s := newStore(t, remote)
	v := uint256.NewInt(42)

	s.SetBalance(alice, v)
	assert.Equal(t, v, s.GetAccount(alice).Balance, "local write wins over remote")

	id := s.Snapshot()
	s.SetBalance(alice, new(uint256.Int))
	assert.True(t, s.GetAccount(alice).Balance.IsZero())

	require.True(t, s.Revert(id))
	assert.Equal(t, v, s.GetAccount(alice).Balance)
	assert.False(t, s.Revert(id))
}

func TestStateRootAndFreeze(t *testing.T) {
	remote := &mockRemote{}
	remote.On("Account", mock.Anything, alice, pin.Number).Return(remoteAccount(10, nil), nil).Once()

	s := newStore(t, remote)
	_, ok := s.StateRoot()
	assert.False(t, ok, "remote state is not enumerable")

	s.SetNonce(alice, 1)
	view := s.Freeze()
	s.SetNonce(alice, 2)

	acc := view.GetAccount(alice)
	assert.Equal(t, uint64(1), acc.Nonce)
	assert.Equal(t, uint256.NewInt(10), acc.Balance)
	assert.Equal(t, pin, s.Pin())
	remote.AssertNumberOfCalls(t, "Account", 1)
}

func TestClosedStoreReadsDefault(t *testing.T) {
	remote := &mockRemote{}
	remote.On("Storage", mock.Anything, alice, common.Hash{1}, pin.Number).
		Return(common.Hash{}, context.Canceled)

	s := New(context.Background(), remote, pin, WithFetchTimeout(0))
	s.Close()
	assert.Equal(t, common.Hash{}, s.GetStorage(alice, common.Hash{1}))
}
