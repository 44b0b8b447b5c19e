// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/state"
	"gopkg.in/yaml.v3"
)

// Config is the content of the --config file. Zero values leave the flag defaults in place.
//
//	chainId: 31337
//	blockTime: 2s
//	alloc:
//	  "0x7e5f4552091a69125d5dfcb7b8c2659029395bdf":
//	    balance: "1000000000000000000"
//	    code: "0x6000"
//	    storage:
//	      "0x01": "0x02"
type Config struct {
	ChainID   uint64                  `yaml:"chainId"`
	GasLimit  uint64                  `yaml:"gasLimit"`
	BaseFee   uint64                  `yaml:"baseFee"`
	Coinbase  string                  `yaml:"coinbase"`
	BlockTime time.Duration           `yaml:"blockTime"`
	Alloc     map[string]AllocAccount `yaml:"alloc"`
}

// AllocAccount is a genesis account. Balance is decimal or 0x prefixed hex.
type AllocAccount struct {
	Balance string            `yaml:"balance"`
	Nonce   uint64            `yaml:"nonce"`
	Code    string            `yaml:"code"`
	Storage map[string]string `yaml:"storage"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return &cfg, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) > common.HashLength {
		return common.Hash{}, errors.New("longer than 32 bytes")
	}
	return common.BytesToHash(b), nil
}

// GenesisDump converts the allocations into a state dump.
func (c *Config) GenesisDump() (*state.Dump, error) {
	d := state.NewDump()
	for hexAddr, a := range c.Alloc {
		if !common.IsHexAddress(hexAddr) {
			return nil, errors.Errorf("alloc: invalid address %q", hexAddr)
		}
		addr := common.HexToAddress(hexAddr)

		balance := new(uint256.Int)
		if a.Balance != "" {
			b, ok := math.ParseBig256(a.Balance)
			if !ok {
				return nil, errors.Errorf("alloc %v: invalid balance %q", addr, a.Balance)
			}
			balance.SetFromBig(b)
		}
		da := &state.DumpAccount{
			Nonce:   hexutil.Uint64(a.Nonce),
			Balance: (*hexutil.U256)(balance),
			Storage: make(map[common.Hash]common.Hash, len(a.Storage)),
		}
		if a.Code != "" {
			code, err := hexutil.Decode(a.Code)
			if err != nil {
				return nil, errors.Wrapf(err, "alloc %v: code", addr)
			}
			da.Code = code
		}
		for k, v := range a.Storage {
			key, err := parseHash(k)
			if err != nil {
				return nil, errors.Wrapf(err, "alloc %v: storage key %q", addr, k)
			}
			value, err := parseHash(v)
			if err != nil {
				return nil, errors.Wrapf(err, "alloc %v: storage value %q", addr, v)
			}
			da.Storage[key] = value
		}
		d.Accounts[addr] = da
	}
	return d, nil
}
