// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/api/utils"
	"github.com/vechain/ethdev/backend"
)

type Blocks struct {
	backend *backend.Backend
}

func New(backend *backend.Backend) *Blocks {
	return &Blocks{backend}
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	revision, err := utils.ParseRevision(mux.Vars(req)["revision"])
	if err != nil {
		return err
	}
	expanded := req.URL.Query().Get("expanded")
	if expanded != "" && expanded != "false" && expanded != "true" {
		return utils.BadRequest(errors.WithMessage(errors.New("should be boolean"), "expanded"))
	}

	blk, err := b.backend.Block(revision)
	if err != nil {
		if b.backend.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}

	summary := BuildJSONBlockSummary(blk)
	if expanded == "true" {
		return utils.WriteJSON(w, &JSONExpandedBlock{
			summary,
			blk.Transactions(),
		})
	}

	txs := make([]common.Hash, 0, len(blk.Transactions()))
	for _, tx := range blk.Transactions() {
		txs = append(txs, tx.Hash())
	}
	return utils.WriteJSON(w, &JSONCollapsedBlock{
		summary,
		txs,
	})
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("blocks_get_block").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBlock))
}
