// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package backend

import "github.com/vechain/ethdev/metrics"

var (
	metricTxCount      = metrics.LazyLoadCounterVec("backend_tx_count", []string{"result"})
	metricMineDuration = metrics.LazyLoadHistogramVec("backend_mine_duration_ms", []string{"kind"}, metrics.BucketHTTPReqs)
)
