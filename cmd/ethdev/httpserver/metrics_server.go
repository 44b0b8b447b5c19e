// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/co"
	"github.com/vechain/ethdev/metrics"
)

// StartMetricsServer serves the prometheus registry on addr, under /metrics.
func StartMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics API addr [%v]", addr)
	}
	handler := metrics.HTTPHandler()
	if handler == nil {
		listener.Close()
		return "", nil, errors.New("metrics are not initialized")
	}

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(handler)

	srv := &http.Server{Handler: handlers.CompressHandler(router), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
