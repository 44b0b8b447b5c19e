// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fork

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/state"
	"golang.org/x/sync/errgroup"
)

// Remote answers point queries against a remote chain.
type Remote interface {
	// Account returns the account as of block, code included.
	Account(ctx context.Context, addr common.Address, block uint64) (*state.Account, error)
	Storage(ctx context.Context, addr common.Address, key common.Hash, block uint64) (common.Hash, error)
	BlockHash(ctx context.Context, num uint64) (common.Hash, error)
}

// Pin is the remote block a fork reads from.
type Pin struct {
	Number uint64
	Hash   common.Hash
}

// RPCRemote is a Remote served by an Ethereum JSON-RPC endpoint.
type RPCRemote struct {
	client *ethclient.Client
}

var _ Remote = (*RPCRemote)(nil)

// Dial connects to the JSON-RPC endpoint at url.
func Dial(ctx context.Context, url string) (*RPCRemote, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	return NewRPCRemote(client), nil
}

// NewRPCRemote wraps a connected client.
func NewRPCRemote(client *ethclient.Client) *RPCRemote {
	return &RPCRemote{client}
}

// Close closes the underlying connection.
func (r *RPCRemote) Close() {
	r.client.Close()
}

// PinOf returns the pin of a remote header.
func PinOf(header *types.Header) Pin {
	return Pin{Number: header.Number.Uint64(), Hash: header.Hash()}
}

// ChainID returns the chain id of the remote chain.
func (r *RPCRemote) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := r.client.ChainID(ctx)
	return id, errors.Wrap(err, "fetch chain id")
}

// HeaderByNumber fetches the header of block num, or of the head when num is nil.
func (r *RPCRemote) HeaderByNumber(ctx context.Context, num *uint64) (*types.Header, error) {
	var n *big.Int
	if num != nil {
		n = new(big.Int).SetUint64(*num)
	}
	header, err := r.client.HeaderByNumber(ctx, n)
	if err != nil {
		if num == nil {
			return nil, errors.Wrap(err, "fetch latest header")
		}
		return nil, errors.Wrapf(err, "fetch header %d", *num)
	}
	return header, nil
}

// Account fetches balance, nonce and code concurrently.
func (r *RPCRemote) Account(ctx context.Context, addr common.Address, block uint64) (*state.Account, error) {
	var (
		num     = new(big.Int).SetUint64(block)
		balance *big.Int
		nonce   uint64
		code    []byte
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		balance, err = r.client.BalanceAt(ctx, addr, num)
		return errors.Wrap(err, "balance")
	})
	g.Go(func() (err error) {
		nonce, err = r.client.NonceAt(ctx, addr, num)
		return errors.Wrap(err, "nonce")
	})
	g.Go(func() (err error) {
		code, err = r.client.CodeAt(ctx, addr, num)
		return errors.Wrap(err, "code")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bal, overflow := uint256.FromBig(balance)
	if overflow {
		return nil, errors.Errorf("balance of %v overflows 256 bits", addr)
	}
	acc := state.NewAccount()
	acc.Nonce = nonce
	acc.Balance = bal
	if len(code) > 0 {
		acc.Code = code
		acc.CodeHash = state.CodeHash(code)
	}
	return acc, nil
}

func (r *RPCRemote) Storage(ctx context.Context, addr common.Address, key common.Hash, block uint64) (common.Hash, error) {
	v, err := r.client.StorageAt(ctx, addr, key, new(big.Int).SetUint64(block))
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "storage")
	}
	return common.BytesToHash(v), nil
}

func (r *RPCRemote) BlockHash(ctx context.Context, num uint64) (common.Hash, error) {
	header, err := r.HeaderByNumber(ctx, &num)
	if err != nil {
		return common.Hash{}, err
	}
	return header.Hash(), nil
}
