// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/vechain/ethdev/metrics"

var (
	metricBlockCount       = metrics.LazyLoadCounter("chain_block_count")
	metricTransactionCount = metrics.LazyLoadCounter("chain_transaction_count")
	metricBestNumber       = metrics.LazyLoadGauge("chain_best_number")
)
