// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vechain/ethdev/log"
)

// bodies above this size, such as state loads, are logged truncated
const maxLoggedBody = 1024

// RequestLoggerHandler logs every request, body included, before passing it on.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		// the body can only be read once, hand a copy to the next handler
		var bodyBytes []byte
		if r.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		body := string(bodyBytes)
		if len(body) > maxLoggedBody {
			body = fmt.Sprintf("%s...(%d bytes)", body[:maxLoggedBody], len(bodyBytes))
		}
		logger.Info("API Request",
			"timestamp", time.Now().Unix(),
			"URI", r.URL.String(),
			"Method", r.Method,
			"RemoteAddr", r.RemoteAddr,
			"Body", body,
		)
		handler.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
