// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/state"
	cli "gopkg.in/urfave/cli.v1"
)

const testConfig = `
chainId: 31337
gasLimit: 15000000
blockTime: 2s
coinbase: "0x00000000000000000000000000000000000000cb"
alloc:
  "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf":
    balance: "0xde0b6b3a7640000"
    nonce: 2
    code: "0x6000"
    storage:
      "0x01": "0x02"
  "0x2b5ad5c4795c026514f8317c7a215e218dccd6cf":
    balance: "1000"
`

var (
	allocA = common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	allocB = common.HexToAddress("0x2b5ad5c4795c026514f8317c7a215e218dccd6cf")
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newCliContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{
		chainIDFlag, gasLimitFlag, baseFeeFlag, coinbaseFlag, blockTimeFlag, forkURLFlag, loadStateFlag,
	} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeFile(t, "config.yaml", testConfig))
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), cfg.ChainID)
	assert.Equal(t, 2*time.Second, cfg.BlockTime)

	d, err := cfg.GenesisDump()
	require.NoError(t, err)
	require.Len(t, d.Accounts, 2)

	a := d.Accounts[allocA].Account()
	assert.Equal(t, uint256.NewInt(1e18), a.Balance)
	assert.Equal(t, uint64(2), a.Nonce)
	assert.Equal(t, state.CodeHash([]byte{0x60, 0x00}), a.CodeHash)
	assert.Equal(t, common.Hash{31: 0x02}, d.Accounts[allocA].Storage[common.Hash{31: 0x01}])

	assert.Equal(t, uint256.NewInt(1000), d.Accounts[allocB].Account().Balance)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = loadConfig(writeFile(t, "bad.yaml", "chainId: [1"))
	assert.Error(t, err)
}

func TestGenesisDumpErrors(t *testing.T) {
	for _, alloc := range []map[string]AllocAccount{
		{"0xzz": {}},
		{allocA.Hex(): {Balance: "lots"}},
		{allocA.Hex(): {Code: "6000"}},
		{allocA.Hex(): {Storage: map[string]string{"0x01": "0x1"}}},
		{allocA.Hex(): {Storage: map[string]string{"0x" + common.Bytes2Hex(make([]byte, 33)): "0x01"}}},
	} {
		_, err := (&Config{Alloc: alloc}).GenesisDump()
		assert.Error(t, err, "%v", alloc)
	}
}

func TestResolveSettings(t *testing.T) {
	cfg, err := loadConfig(writeFile(t, "config.yaml", testConfig))
	require.NoError(t, err)

	s, err := resolveSettings(newCliContext(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), s.chainID.Uint64())
	assert.Equal(t, uint64(15_000_000), s.gasLimit)
	assert.Equal(t, uint64(1_000_000_000), s.baseFee)
	assert.Equal(t, common.Address{19: 0xcb}, s.coinbase)
	assert.Equal(t, 2*time.Second, s.blockTime)

	// flags win over the config file
	s, err = resolveSettings(newCliContext(t, "--chain-id", "5", "--gas-limit", "1", "--block-time", "1s"), cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), s.chainID.Uint64())
	assert.Equal(t, uint64(1), s.gasLimit)
	assert.Equal(t, time.Second, s.blockTime)

	// the remote chain id is used in fork mode
	s, err = resolveSettings(newCliContext(t, "--fork-url", "http://localhost:8545"), &Config{})
	require.NoError(t, err)
	assert.Nil(t, s.chainID)

	_, err = resolveSettings(newCliContext(t, "--coinbase", "nope"), &Config{})
	assert.Error(t, err)
}

func TestGenesisDump(t *testing.T) {
	d, err := genesisDump(newCliContext(t), &Config{})
	require.NoError(t, err)
	assert.Len(t, d.Accounts, devAccountCount)
	for _, a := range devAccounts {
		assert.Equal(t, devAccountBalance, d.Accounts[a.Address].Account().Balance)
	}

	loaded := state.NewDump()
	loaded.Accounts[devAccounts[0].Address] = &state.DumpAccount{Nonce: 9}
	loaded.BlockHashes[3] = common.Hash{0x03}
	f, err := os.Create(filepath.Join(t.TempDir(), "dump.json"))
	require.NoError(t, err)
	require.NoError(t, loaded.Write(f))
	require.NoError(t, f.Close())

	d, err = genesisDump(newCliContext(t, "--load-state", f.Name()), &Config{})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), d.Accounts[devAccounts[0].Address].Account().Nonce, "loaded dump wins")
	assert.Equal(t, common.Hash{0x03}, d.BlockHashes[3])

	_, err = genesisDump(newCliContext(t, "--load-state", "/nonexistent/dump.json"), &Config{})
	assert.Error(t, err)
}

func TestOpenMemoryState(t *testing.T) {
	s := &settings{gasLimit: 30_000_000, baseFee: 7}
	gen := devGenesisDump()
	live, err := openMemoryState(s, gen)
	require.NoError(t, err)
	defer live.close()

	best := live.repo.BestBlock()
	assert.Equal(t, uint64(0), best.NumberU64())
	assert.Equal(t, gen.Root(), best.Root())
	assert.Equal(t, uint64(7), best.BaseFee().Uint64())
	assert.Equal(t, devAccountBalance, live.db.GetAccount(devAccounts[3].Address).Balance)
}

func TestDevAccountsDeterministic(t *testing.T) {
	require.Len(t, devAccounts, devAccountCount)
	seen := make(map[common.Address]bool)
	for _, a := range devAccounts {
		assert.False(t, seen[a.Address])
		seen[a.Address] = true
	}
}
