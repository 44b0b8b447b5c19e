// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/api/utils"
	"github.com/vechain/ethdev/backend"
	"github.com/vechain/ethdev/log"
)

var logger = log.WithContext("pkg", "transactions")

type Transactions struct {
	backend *backend.Backend
}

func New(backend *backend.Backend) *Transactions {
	return &Transactions{backend}
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseHash(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	raw := req.URL.Query().Get("raw")
	if raw != "" && raw != "false" && raw != "true" {
		return utils.BadRequest(errors.WithMessage(errors.New("should be boolean"), "raw"))
	}

	mined, err := t.backend.Transaction(id)
	if err != nil {
		if t.backend.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	if raw == "true" {
		enc, err := mined.Tx.MarshalBinary()
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, &RawTransaction{Raw: enc})
	}
	return utils.WriteJSON(w, convertTransaction(mined))
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseHash(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := t.backend.Receipt(id)
	if err != nil {
		if t.backend.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}
	return utils.WriteJSON(w, receipt)
}

// handleSendTransaction mines the transaction into a new block when it is valid.
func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var rawTx RawTransaction
	if err := utils.ParseJSON(req.Body, &rawTx); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(rawTx.Raw); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}

	txs := []*types.Transaction{tx}
	pending, err := t.backend.Pending(req.Context(), txs)
	if err != nil {
		return err
	}
	if len(pending.Transactions()) == 0 {
		return utils.BadRequest(errors.Errorf("transaction %v rejected", tx.Hash()))
	}

	blk, err := t.backend.Mine(req.Context(), txs)
	if err != nil {
		return err
	}
	logger.Debug("transaction mined", "id", tx.Hash(), "block", blk.NumberU64())
	return utils.WriteJSON(w, &SendResult{
		ID:          tx.Hash(),
		BlockHash:   blk.Hash(),
		BlockNumber: hexutil.Uint64(blk.NumberU64()),
	})
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("transactions_send_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("transactions_get_tx").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("transactions_get_receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
