// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vechain/ethdev/logdb"
)

// Range is an inclusive block number range. Missing bounds default to the first and best block.
type Range struct {
	From *hexutil.Uint64 `json:"from"`
	To   *hexutil.Uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Address *common.Address `json:"address"`
	Topic0  *common.Hash    `json:"topic0"`
	Topic1  *common.Hash    `json:"topic1"`
	Topic2  *common.Hash    `json:"topic2"`
	Topic3  *common.Hash    `json:"topic3"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type TransferCriteria struct {
	Sender    *common.Address `json:"sender"`
	Recipient *common.Address `json:"recipient"`
}

type TransferFilter struct {
	TxHash      *common.Hash        `json:"txHash"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *Range              `json:"range"`
	Options     *Options            `json:"options"`
	Order       logdb.Order         `json:"order"`
}

type LogMeta struct {
	BlockHash        common.Hash    `json:"blockHash"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	BlockTimestamp   hexutil.Uint64 `json:"blockTimestamp"`
	TxHash           common.Hash    `json:"transactionHash"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
}

type FilteredEvent struct {
	Address  common.Address `json:"address"`
	Topics   []common.Hash  `json:"topics"`
	Data     hexutil.Bytes  `json:"data"`
	LogIndex hexutil.Uint64 `json:"logIndex"`
	Meta     LogMeta        `json:"meta"`
}

type FilteredTransfer struct {
	Sender    common.Address `json:"sender"`
	Recipient common.Address `json:"recipient"`
	Amount    *hexutil.Big   `json:"amount"`
	Meta      LogMeta        `json:"meta"`
}

func convertEvent(e *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address:  e.Address,
		Topics:   make([]common.Hash, 0, len(e.Topics)),
		Data:     e.Data,
		LogIndex: hexutil.Uint64(e.Index),
		Meta: LogMeta{
			BlockHash:        e.BlockHash,
			BlockNumber:      hexutil.Uint64(e.BlockNumber),
			BlockTimestamp:   hexutil.Uint64(e.BlockTime),
			TxHash:           e.TxHash,
			TransactionIndex: hexutil.Uint64(e.TxIndex),
		},
	}
	for _, topic := range e.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, *topic)
		}
	}
	return fe
}

func convertTransfer(t *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Amount:    (*hexutil.Big)(t.Amount),
		Meta: LogMeta{
			BlockHash:        t.BlockHash,
			BlockNumber:      hexutil.Uint64(t.BlockNumber),
			BlockTimestamp:   hexutil.Uint64(t.BlockTime),
			TxHash:           t.TxHash,
			TransactionIndex: hexutil.Uint64(t.TxIndex),
		},
	}
}
