// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package debug exposes the dev controls of the node: forced writes,
// snapshots, manual mining and state dumps.
package debug

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/api/utils"
	"github.com/vechain/ethdev/backend"
	"github.com/vechain/ethdev/state"
)

type Debug struct {
	backend *backend.Backend
}

func New(backend *backend.Backend) *Debug {
	return &Debug{backend}
}

func (d *Debug) handleSnapshot(w http.ResponseWriter, _ *http.Request) error {
	id := d.backend.Snapshot()
	return utils.WriteJSON(w, &SnapshotResult{ID: hexutil.Uint64(id)})
}

func (d *Debug) handleRevert(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 0, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return utils.WriteJSON(w, &RevertResult{Reverted: d.backend.Revert(state.SnapshotID(id))})
}

func (d *Debug) handleSetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var override AccountOverride
	if err := utils.ParseJSON(req.Body, &override); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	if override.Balance != nil {
		d.backend.SetBalance(addr, (*uint256.Int)(override.Balance))
	}
	if override.Nonce != nil {
		d.backend.SetNonce(addr, uint64(*override.Nonce))
	}
	if override.Code != nil {
		d.backend.SetCode(addr, *override.Code)
	}
	for k, v := range override.Storage {
		d.backend.SetStorageAt(addr, k, v)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (d *Debug) handleMine(w http.ResponseWriter, req *http.Request) error {
	var mineReq MineRequest
	if req.ContentLength != 0 {
		if err := utils.ParseJSON(req.Body, &mineReq); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
	}
	txs := make([]*types.Transaction, 0, len(mineReq.Transactions))
	for i, raw := range mineReq.Transactions {
		tx := new(types.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return utils.BadRequest(errors.WithMessagef(err, "transactions[%d]", i))
		}
		txs = append(txs, tx)
	}

	blk, err := d.backend.Mine(req.Context(), txs)
	if err != nil {
		return err
	}
	hashes := make([]common.Hash, 0, len(blk.Transactions()))
	for _, tx := range blk.Transactions() {
		hashes = append(hashes, tx.Hash())
	}
	return utils.WriteJSON(w, &MineResult{
		Number:       hexutil.Uint64(blk.NumberU64()),
		Hash:         blk.Hash(),
		StateRoot:    blk.Root(),
		Transactions: hashes,
	})
}

func (d *Debug) handleDumpState(w http.ResponseWriter, _ *http.Request) error {
	dump, err := d.backend.DumpState()
	if err != nil {
		return utils.BackendError(d.backend, err)
	}
	w.Header().Set("Content-Type", utils.JSONContentType)
	return dump.Write(w)
}

func (d *Debug) handleLoadState(w http.ResponseWriter, req *http.Request) error {
	dump, err := state.ReadDump(req.Body)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := d.backend.LoadState(dump); err != nil {
		return utils.BackendError(d.backend, err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (d *Debug) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/snapshot").
		Methods(http.MethodPost).
		Name("debug_snapshot").
		HandlerFunc(utils.WrapHandlerFunc(d.handleSnapshot))
	sub.Path("/revert/{id}").
		Methods(http.MethodPost).
		Name("debug_revert").
		HandlerFunc(utils.WrapHandlerFunc(d.handleRevert))
	sub.Path("/accounts/{address}").
		Methods(http.MethodPost).
		Name("debug_set_account").
		HandlerFunc(utils.WrapHandlerFunc(d.handleSetAccount))
	sub.Path("/mine").
		Methods(http.MethodPost).
		Name("debug_mine").
		HandlerFunc(utils.WrapHandlerFunc(d.handleMine))
	sub.Path("/state").
		Methods(http.MethodGet).
		Name("debug_dump_state").
		HandlerFunc(utils.WrapHandlerFunc(d.handleDumpState))
	sub.Path("/state").
		Methods(http.MethodPost).
		Name("debug_load_state").
		HandlerFunc(utils.WrapHandlerFunc(d.handleLoadState))
}
