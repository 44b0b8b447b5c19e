// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/vechain/ethdev/api/utils"
	"github.com/vechain/ethdev/backend"
)

type Accounts struct {
	backend *backend.Backend
}

func New(backend *backend.Backend) *Accounts {
	return &Accounts{backend}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	rev, err := utils.ParseRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return err
	}
	st, err := a.backend.StateAt(rev)
	if err != nil {
		return utils.BackendError(a.backend, err)
	}
	acc := st.GetAccount(addr)
	return utils.WriteJSON(w, &Account{
		Balance: (*hexutil.U256)(acc.Balance),
		Nonce:   hexutil.Uint64(acc.Nonce),
		HasCode: acc.HasCode(),
	})
}

func (a *Accounts) handleGetCode(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	rev, err := utils.ParseRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return err
	}
	code, err := a.backend.Code(addr, rev)
	if err != nil {
		return utils.BackendError(a.backend, err)
	}
	return utils.WriteJSON(w, &GetCodeResult{Code: code})
}

func (a *Accounts) handleGetStorage(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	key, err := utils.ParseHash(mux.Vars(req)["key"])
	if err != nil {
		return err
	}
	rev, err := utils.ParseRevision(req.URL.Query().Get("revision"))
	if err != nil {
		return err
	}
	value, err := a.backend.StorageAt(addr, key, rev)
	if err != nil {
		return utils.BackendError(a.backend, err)
	}
	return utils.WriteJSON(w, &GetStorageResult{Value: value})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("accounts_get_account").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/code").
		Methods(http.MethodGet).
		Name("accounts_get_code").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetCode))
	sub.Path("/{address}/storage/{key}").
		Methods(http.MethodGet).
		Name("accounts_get_storage").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStorage))
}
