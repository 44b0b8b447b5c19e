// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/vechain/ethdev/api/accounts"
	"github.com/vechain/ethdev/api/blocks"
	"github.com/vechain/ethdev/api/debug"
	"github.com/vechain/ethdev/api/logs"
	"github.com/vechain/ethdev/api/subscriptions"
	"github.com/vechain/ethdev/api/transactions"
	"github.com/vechain/ethdev/backend"
	"github.com/vechain/ethdev/log"
	"github.com/vechain/ethdev/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	BacktraceLimit  uint64
	LogsLimit       uint64
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router and a func closing the open subscriptions.
// The log routes are mounted only with a non-nil logDB.
func New(backend *backend.Backend, logDB *logdb.LogDB, opts Options) (http.Handler, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(backend).
		Mount(router, "/accounts")
	blocks.New(backend).
		Mount(router, "/blocks")
	transactions.New(backend).
		Mount(router, "/transactions")
	debug.New(backend).
		Mount(router, "/debug")
	if logDB != nil {
		logs.New(backend.Repo(), logDB, opts.LogsLimit).
			Mount(router, "/logs")
	}
	subs := subscriptions.New(backend.Repo(), origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler, subs.Close
}
