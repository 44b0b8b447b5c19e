// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/backend"
	"github.com/vechain/ethdev/chain"
)

// ParseAddress parses a hex address. Failures are bad requests.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, BadRequest(errors.Errorf("address: invalid %q", s))
	}
	return common.HexToAddress(s), nil
}

// ParseHash parses a 0x prefixed value of up to 32 bytes, left padded to a hash.
func ParseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, BadRequest(errors.WithMessagef(err, "hash %q", s))
	}
	if len(b) > common.HashLength {
		return common.Hash{}, BadRequest(errors.Errorf("hash %q: too long", s))
	}
	return common.BytesToHash(b), nil
}

// ParseRevision parses a revision. Failures are bad requests.
func ParseRevision(s string) (chain.Revision, error) {
	rev, err := chain.ParseRevision(s)
	if err != nil {
		return chain.Revision{}, BadRequest(errors.WithMessage(err, "revision"))
	}
	return rev, nil
}

// BackendError maps backend errors to http errors.
func BackendError(b *backend.Backend, err error) error {
	switch {
	case err == nil:
		return nil
	case b.IsNotFound(err):
		return NotFound(err)
	case errors.Is(err, backend.ErrStateUnavailable):
		return HTTPError(err, http.StatusGone)
	case errors.Is(err, backend.ErrDumpUnsupported):
		return HTTPError(err, http.StatusNotImplemented)
	}
	return err
}
