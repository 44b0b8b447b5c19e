// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fork

import "github.com/vechain/ethdev/metrics"

var (
	metricFetchCount    = metrics.LazyLoadCounterVec("fork_remote_fetch_count", []string{"type", "result"})
	metricFetchDuration = metrics.LazyLoadHistogramVec("fork_remote_fetch_duration_ms", []string{"type"}, metrics.BucketFetch)
)

var metricDiskCacheCount = metrics.LazyLoadCounterVec("fork_disk_cache_count", []string{"type", "result"})
