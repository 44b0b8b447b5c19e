// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/vechain/ethdev/api"
	"github.com/vechain/ethdev/backend"
	"github.com/vechain/ethdev/cmd/ethdev/httpserver"
	"github.com/vechain/ethdev/co"
	"github.com/vechain/ethdev/log"
	"github.com/vechain/ethdev/logdb"
	"github.com/vechain/ethdev/metrics"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "ethdev")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("ethdev %s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "ethdev",
		Usage:   "local Ethereum development node",
		Flags: []cli.Flag{
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			skipLogsFlag,
			enableAPILogsFlag,
			configFlag,
			forkURLFlag,
			forkBlockNumberFlag,
			forkTimeoutFlag,
			forkCacheDirFlag,
			chainIDFlag,
			gasLimitFlag,
			baseFeeFlag,
			coinbaseFlag,
			blockTimeFlag,
			stateHistoryFlag,
			loadStateFlag,
			dumpStateFlag,
			verbosityFlag,
			logFormatFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg := &Config{}
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = loadConfig(path); err != nil {
			return err
		}
	}
	s, err := resolveSettings(ctx, cfg)
	if err != nil {
		return err
	}
	gen, err := genesisDump(ctx, cfg)
	if err != nil {
		return err
	}

	var live *liveState
	if ctx.String(forkURLFlag.Name) != "" {
		live, err = openForkState(exitSignal, ctx, s, gen)
	} else {
		live, err = openMemoryState(s, gen)
	}
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state..."); live.close() }()

	b, err := backend.New(live.db, live.repo, backend.NewTransferExecutor(live.chainID), backend.Options{
		GasLimit:     s.gasLimit,
		BaseFee:      new(big.Int).SetUint64(s.baseFee),
		Coinbase:     s.coinbase,
		StateHistory: ctx.Int(stateHistoryFlag.Name),
	})
	if err != nil {
		return err
	}

	var logDB *logdb.LogDB
	if !ctx.Bool(skipLogsFlag.Name) {
		if logDB, err = logdb.NewMem(); err != nil {
			return err
		}
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	runCtx, cancelRun := context.WithCancel(exitSignal)
	var goes co.Goes
	defer func() { cancelRun(); goes.Wait() }()

	if logDB != nil {
		indexer, err := logdb.NewIndexer(logDB, live.repo, types.LatestSignerForChainID(live.chainID))
		if err != nil {
			return err
		}
		goes.Go(func() { indexer.Run(runCtx) })
	}

	handler, subsCloser := api.New(b, logDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		BacktraceLimit:  ctx.Uint64(apiBacktraceLimitFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	defer subsCloser()
	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		metricsURL = url
	}

	printStartupMessage(live, apiURL, metricsURL, len(cfg.Alloc) == 0)

	if s.blockTime > 0 {
		goes.Go(func() { mineLoop(runCtx, b, s.blockTime) })
	}
	<-exitSignal.Done()

	if path := ctx.String(dumpStateFlag.Name); path != "" {
		if err := dumpState(b, path); err != nil {
			logger.Warn("failed to dump state", "path", path, "err", err)
		} else {
			logger.Info("state dumped", "path", path)
		}
	}
	return nil
}
