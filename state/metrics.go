// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/ethdev/metrics"

var (
	metricSnapshotCount = metrics.LazyLoadCounterVec("state_snapshot_count", []string{"op", "result"})
	metricArchiveSize   = metrics.LazyLoadGauge("state_archive_size")
)
