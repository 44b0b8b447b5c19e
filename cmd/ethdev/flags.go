// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8545",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:  "api-backtrace-limit",
		Value: 1000,
		Usage: "limit the distance between 'position' and best block for subscriptions APIs",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	skipLogsFlag = cli.BoolFlag{
		Name:  "skip-logs",
		Usage: "skip indexing events and transfers, the /logs API is disabled",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file with chain settings and genesis allocations",
	}
	forkURLFlag = cli.StringFlag{
		Name:  "fork-url",
		Usage: "JSON-RPC endpoint of a remote chain to fork from",
	}
	forkBlockNumberFlag = cli.Uint64Flag{
		Name:  "fork-block-number",
		Usage: "remote block to fork from, defaults to the remote head",
	}
	forkTimeoutFlag = cli.DurationFlag{
		Name:  "fork-timeout",
		Value: 30 * time.Second,
		Usage: "timeout of a single remote fetch",
	}
	forkCacheDirFlag = cli.StringFlag{
		Name:  "fork-cache-dir",
		Usage: "directory persisting the fetched remote state across restarts, disabled if empty",
	}
	chainIDFlag = cli.Uint64Flag{
		Name:  "chain-id",
		Value: 1337,
		Usage: "chain id, defaults to the remote chain id in fork mode",
	}
	gasLimitFlag = cli.Uint64Flag{
		Name:  "gas-limit",
		Value: 30_000_000,
		Usage: "block gas limit",
	}
	baseFeeFlag = cli.Uint64Flag{
		Name:  "base-fee",
		Value: 1_000_000_000,
		Usage: "base fee per gas of every block, in wei",
	}
	coinbaseFlag = cli.StringFlag{
		Name:  "coinbase",
		Usage: "address receiving the priority fees",
	}
	blockTimeFlag = cli.DurationFlag{
		Name:  "block-time",
		Usage: "mine an empty block at this interval, zero mines on demand only",
	}
	stateHistoryFlag = cli.IntFlag{
		Name:  "state-history",
		Value: 128,
		Usage: "number of recent block states kept for historical queries",
	}
	loadStateFlag = cli.StringFlag{
		Name:  "load-state",
		Usage: "initialize the state from a JSON dump, snappy compressed if the name ends with .sz",
	}
	dumpStateFlag = cli.StringFlag{
		Name:  "dump-state",
		Usage: "write a JSON dump of the state on exit, snappy compressed if the name ends with .sz",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Value: "terminal",
		Usage: "log format (terminal|json|logfmt)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
)
