// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/vechain/ethdev/state"
)

// DevAccount is a funded account with a well known key.
type DevAccount struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

const devAccountCount = 10

// devAccountBalance is 10000 ether.
var devAccountBalance = uint256.MustFromDecimal("10000000000000000000000")

var devAccounts = func() []DevAccount {
	accs := make([]DevAccount, 0, devAccountCount)
	for i := range devAccountCount {
		key, err := crypto.ToECDSA(crypto.Keccak256([]byte(fmt.Sprintf("ethdev dev account %d", i))))
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{crypto.PubkeyToAddress(key.PublicKey), key})
	}
	return accs
}()

// devGenesisDump funds the dev accounts.
func devGenesisDump() *state.Dump {
	d := state.NewDump()
	for _, a := range devAccounts {
		d.Accounts[a.Address] = &state.DumpAccount{
			Balance: (*hexutil.U256)(new(uint256.Int).Set(devAccountBalance)),
		}
	}
	return d
}
