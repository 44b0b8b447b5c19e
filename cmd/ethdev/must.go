// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/backend"
	"github.com/vechain/ethdev/chain"
	"github.com/vechain/ethdev/fork"
	"github.com/vechain/ethdev/log"
	"github.com/vechain/ethdev/lvldb"
	"github.com/vechain/ethdev/state"
	cli "gopkg.in/urfave/cli.v1"
)

func initLogger(ctx *cli.Context) error {
	return log.Setup(os.Stderr, ctx.String(logFormatFlag.Name), ctx.Int(verbosityFlag.Name))
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// settings are the chain parameters, flags taking precedence over the config file.
type settings struct {
	chainID   *big.Int // nil means the remote chain id in fork mode
	gasLimit  uint64
	baseFee   uint64
	coinbase  common.Address
	blockTime time.Duration
}

func resolveSettings(ctx *cli.Context, cfg *Config) (*settings, error) {
	pick := func(flag string, flagValue, cfgValue uint64) uint64 {
		if ctx.IsSet(flag) || cfgValue == 0 {
			return flagValue
		}
		return cfgValue
	}

	s := &settings{
		gasLimit:  pick(gasLimitFlag.Name, ctx.Uint64(gasLimitFlag.Name), cfg.GasLimit),
		baseFee:   pick(baseFeeFlag.Name, ctx.Uint64(baseFeeFlag.Name), cfg.BaseFee),
		blockTime: ctx.Duration(blockTimeFlag.Name),
	}
	if !ctx.IsSet(blockTimeFlag.Name) && cfg.BlockTime > 0 {
		s.blockTime = cfg.BlockTime
	}

	switch {
	case ctx.IsSet(chainIDFlag.Name):
		s.chainID = new(big.Int).SetUint64(ctx.Uint64(chainIDFlag.Name))
	case cfg.ChainID != 0:
		s.chainID = new(big.Int).SetUint64(cfg.ChainID)
	case ctx.String(forkURLFlag.Name) == "":
		s.chainID = new(big.Int).SetUint64(ctx.Uint64(chainIDFlag.Name))
	}

	coinbase := ctx.String(coinbaseFlag.Name)
	if coinbase == "" {
		coinbase = cfg.Coinbase
	}
	if coinbase != "" {
		if !common.IsHexAddress(coinbase) {
			return nil, errors.Errorf("invalid coinbase %q", coinbase)
		}
		s.coinbase = common.HexToAddress(coinbase)
	}
	return s, nil
}

// genesisDump is the content written into the state before the first block:
// the config allocations, or the dev accounts when there are none, then the loaded dump.
func genesisDump(ctx *cli.Context, cfg *Config) (*state.Dump, error) {
	d := devGenesisDump()
	if len(cfg.Alloc) > 0 {
		var err error
		if d, err = cfg.GenesisDump(); err != nil {
			return nil, err
		}
	}
	if path := ctx.String(loadStateFlag.Name); path != "" {
		loaded, err := readDumpFile(path)
		if err != nil {
			return nil, err
		}
		for addr, acc := range loaded.Accounts {
			d.Accounts[addr] = acc
		}
		for num, h := range loaded.BlockHashes {
			d.BlockHashes[num] = h
		}
	}
	return d, nil
}

// liveState is the store and the chain the node starts from.
type liveState struct {
	db      state.Store
	repo    *chain.Repository
	chainID *big.Int
	forked  *fork.Pin
	close   func()
}

func openMemoryState(s *settings, gen *state.Dump) (*liveState, error) {
	db := state.NewMemory()
	db.Load(gen)
	root, ok := db.StateRoot()
	if !ok {
		return nil, errors.New("memory state root unavailable")
	}
	header := chain.NewGenesisHeader(root, s.gasLimit, new(big.Int).SetUint64(s.baseFee))
	return &liveState{
		db:      db,
		repo:    chain.NewRepository(header),
		chainID: s.chainID,
		close:   func() {},
	}, nil
}

func openForkState(ctx context.Context, cliCtx *cli.Context, s *settings, gen *state.Dump) (*liveState, error) {
	url := cliCtx.String(forkURLFlag.Name)
	remote, err := fork.Dial(ctx, url)
	if err != nil {
		return nil, err
	}

	var num *uint64
	if cliCtx.IsSet(forkBlockNumberFlag.Name) {
		n := cliCtx.Uint64(forkBlockNumberFlag.Name)
		num = &n
	}
	header, err := remote.HeaderByNumber(ctx, num)
	if err != nil {
		remote.Close()
		return nil, err
	}
	remoteID, err := remote.ChainID(ctx)
	if err != nil {
		remote.Close()
		return nil, err
	}
	chainID := s.chainID
	if chainID == nil {
		chainID = remoteID
	}

	var (
		source     fork.Remote = remote
		closeCache             = func() {}
	)
	if dir := cliCtx.String(forkCacheDirFlag.Name); dir != "" {
		// one db per remote chain
		path := filepath.Join(dir, remoteID.String())
		db, err := lvldb.New(path, lvldb.Options{})
		if err != nil {
			remote.Close()
			return nil, err
		}
		logger.Info("using fork disk cache", "path", path)
		source = fork.NewDiskCache(remote, db)
		closeCache = func() { _ = db.Close() }
	}

	pin := fork.PinOf(header)
	store := fork.New(ctx, source, pin, fork.WithFetchTimeout(cliCtx.Duration(forkTimeoutFlag.Name)))
	store.Load(gen)

	return &liveState{
		db:      store,
		repo:    chain.NewForkedRepository(header),
		chainID: chainID,
		forked:  &pin,
		close: func() {
			store.Close()
			closeCache()
			remote.Close()
		},
	}, nil
}

func dumpState(b *backend.Backend, path string) error {
	d, err := b.DumpState()
	if err != nil {
		return err
	}
	return writeDumpFile(path, d)
}

// mineLoop mines an empty block every interval until ctx is done.
func mineLoop(ctx context.Context, b *backend.Backend, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := b.Mine(ctx, []*types.Transaction{}); err != nil && ctx.Err() == nil {
				logger.Warn("failed to mine block", "err", err)
			}
		}
	}
}

func printStartupMessage(live *liveState, apiURL, metricsURL string, withDevAccounts bool) {
	best := live.repo.BestBlock()

	mode := "memory"
	if live.forked != nil {
		mode = fmt.Sprintf("fork of #%v %v", live.forked.Number, live.forked.Hash)
	}
	if metricsURL == "" {
		metricsURL = "disabled"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Starting %v
    Chain ID    [ %v ]
    State       [ %v ]
    Best block  [ %v #%v @%v ]
    API portal  [ %v ]
    Metrics     [ %v ]
`,
		fullVersion(),
		live.chainID,
		mode,
		best.Hash(), best.NumberU64(), time.Unix(int64(best.Time()), 0),
		apiURL,
		metricsURL)

	if withDevAccounts {
		b.WriteString("\n    Dev accounts\n")
		for _, a := range devAccounts {
			fmt.Fprintf(&b, "    %v  %#x\n", a.Address, crypto.FromECDSA(a.PrivateKey))
		}
	}
	fmt.Print(b.String())
}
