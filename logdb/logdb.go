// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events and value transfers of mined blocks in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/vechain/ethdev/log"
)

var logger = log.WithContext("pkg", "logdb")

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New creates or opens the log db at the given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			_ = db.Close()
		}
	}()
	// an in-memory db lives inside a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem creates a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close closes the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func rangeArgs(rng *Range) (from, to sequence, ok bool) {
	if rng.From > rng.To || rng.From > maxBlockNum {
		return 0, 0, false
	}
	from, _ = newSequence(rng.From, 0)
	to, _ = newSequence(min(rng.To, maxBlockNum), maxIndex)
	return from, to, true
}

func orderAndLimit(order Order, opts *Options, args []any) (string, []any) {
	stmt := " ORDER BY seq ASC"
	if order == DESC {
		stmt = " ORDER BY seq DESC"
	}
	if opts != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, opts.Offset, opts.Limit)
	}
	return stmt, args
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, eventSelect+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := eventSelect + " WHERE 1"
	if filter.Range != nil {
		from, to, ok := rangeArgs(filter.Range)
		if !ok {
			return nil, nil
		}
		stmt += " AND seq >= ? AND seq <= ?"
		args = append(args, from, to)
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			stmt += " AND address = ?"
			args = append(args, criteria.Address.Bytes())
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				stmt += fmt.Sprintf(" AND topic%d = ?", j)
				args = append(args, topic.Bytes())
			}
		}
		stmt += " )"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += " )"
	}

	tail, args := orderAndLimit(filter.Order, filter.Options, args)
	return db.queryEvents(ctx, stmt+tail, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, transferSelect+" ORDER BY seq ASC")
	}
	metricsHandleTransfersFilter(filter)

	var args []any
	stmt := transferSelect + " WHERE 1"
	if filter.Range != nil {
		from, to, ok := rangeArgs(filter.Range)
		if !ok {
			return nil, nil
		}
		stmt += " AND seq >= ? AND seq <= ?"
		args = append(args, from, to)
	}
	if filter.TxHash != nil {
		stmt += " AND txHash = ?"
		args = append(args, filter.TxHash.Bytes())
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Sender != nil {
			stmt += " AND sender = ?"
			args = append(args, criteria.Sender.Bytes())
		}
		if criteria.Recipient != nil {
			stmt += " AND recipient = ?"
			args = append(args, criteria.Recipient.Bytes())
		}
		stmt += " )"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += " )"
	}

	tail, args := orderAndLimit(filter.Order, filter.Options, args)
	return db.queryTransfers(ctx, stmt+tail, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq       sequence
			blockHash []byte
			blockTime uint64
			txHash    []byte
			txIndex   uint32
			address   []byte
			topics    [4][]byte
			data      []byte
		)
		if err := rows.Scan(
			&seq,
			&blockHash,
			&blockTime,
			&txHash,
			&txIndex,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: seq.BlockNumber(),
			BlockHash:   common.BytesToHash(blockHash),
			BlockTime:   blockTime,
			Index:       seq.Index(),
			TxHash:      common.BytesToHash(txHash),
			TxIndex:     txIndex,
			Address:     common.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := common.BytesToHash(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (db *LogDB) queryTransfers(ctx context.Context, query string, args ...any) ([]*Transfer, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq       sequence
			blockHash []byte
			blockTime uint64
			txHash    []byte
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(
			&seq,
			&blockHash,
			&blockTime,
			&txHash,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			BlockNumber: seq.BlockNumber(),
			BlockHash:   common.BytesToHash(blockHash),
			BlockTime:   blockTime,
			TxIndex:     seq.Index(),
			TxHash:      common.BytesToHash(txHash),
			Sender:      common.BytesToAddress(sender),
			Recipient:   common.BytesToAddress(recipient),
			Amount:      new(big.Int).SetBytes(amount),
		})
	}
	return transfers, rows.Err()
}

func topicValue(topics []common.Hash, i int) []byte {
	if i < len(topics) {
		return topics[i].Bytes()
	}
	return nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Write indexes the logs and value transfers of the successful transactions in blk.
// Writing a block again replaces its rows.
func (db *LogDB) Write(blk *types.Block, receipts types.Receipts, signer types.Signer) error {
	txs := blk.Transactions()
	if len(receipts) != len(txs) {
		return errors.Errorf("%d receipts for %d txs", len(receipts), len(txs))
	}
	num, hash, time := blk.NumberU64(), blk.Hash(), blk.Time()

	var written int64
	err := db.execInTx(func(tx *sql.Tx) error {
		for i, t := range txs {
			rc := receipts[i]
			if rc.Status != types.ReceiptStatusSuccessful {
				continue
			}
			for _, l := range rc.Logs {
				seq, err := newSequence(num, uint32(l.Index))
				if err != nil {
					return err
				}
				if _, err := tx.Exec("INSERT OR REPLACE INTO event(seq, blockHash, blockTime, txHash, txIndex, address, topic0, topic1, topic2, topic3, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
					seq,
					hash.Bytes(),
					time,
					t.Hash().Bytes(),
					i,
					l.Address.Bytes(),
					topicValue(l.Topics, 0),
					topicValue(l.Topics, 1),
					topicValue(l.Topics, 2),
					topicValue(l.Topics, 3),
					l.Data,
				); err != nil {
					return err
				}
				written++
			}

			if t.To() == nil || t.Value().Sign() == 0 {
				continue
			}
			sender, err := types.Sender(signer, t)
			if err != nil {
				return errors.Wrapf(err, "recover sender of tx %v", t.Hash())
			}
			seq, err := newSequence(num, uint32(i))
			if err != nil {
				return err
			}
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer(seq, blockHash, blockTime, txHash, sender, recipient, amount) VALUES (?, ?, ?, ?, ?, ?, ?)",
				seq,
				hash.Bytes(),
				time,
				t.Hash().Bytes(),
				sender.Bytes(),
				t.To().Bytes(),
				t.Value().Bytes(),
			); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return err
	}
	metricWrittenRows().Add(written)
	return nil
}
