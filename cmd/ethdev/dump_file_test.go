// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ethdev/state"
)

func TestDumpFile(t *testing.T) {
	d := state.NewDump()
	d.Accounts[common.Address{1}] = &state.DumpAccount{
		Nonce:   3,
		Balance: (*hexutil.U256)(uint256.NewInt(100)),
		Code:    []byte{0x60, 0x00},
		Storage: map[common.Hash]common.Hash{{1}: {2}},
	}
	d.BlockHashes[7] = common.Hash{0x77}

	dir := t.TempDir()
	for _, name := range []string{"state.json", "state.json.sz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, writeDumpFile(path, d))

			loaded, err := readDumpFile(path)
			require.NoError(t, err)
			assert.Equal(t, d, loaded)
		})
	}

	// the compressed file is not plain JSON
	raw, err := os.ReadFile(filepath.Join(dir, "state.json.sz"))
	require.NoError(t, err)
	assert.NotEqual(t, byte('{'), raw[0])

	_, err = readDumpFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
