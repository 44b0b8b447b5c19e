// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Event is a contract log stored in the db.
type Event struct {
	BlockNumber uint64
	BlockHash   common.Hash
	BlockTime   uint64
	Index       uint32 // log index within the block
	TxHash      common.Hash
	TxIndex     uint32
	Address     common.Address
	Topics      [4]*common.Hash
	Data        []byte
}

// Transfer is a successful value transfer made by a transaction.
type Transfer struct {
	BlockNumber uint64
	BlockHash   common.Hash
	BlockTime   uint64
	TxIndex     uint32
	TxHash      common.Hash
	Sender      common.Address
	Recipient   common.Address
	Amount      *big.Int
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive block number range.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *common.Address
	Topics  [4]*common.Hash
}

// EventFilter matches events satisfying any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	Sender    *common.Address
	Recipient *common.Address
}

// TransferFilter matches transfers satisfying any of the criteria.
type TransferFilter struct {
	TxHash      *common.Hash
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
