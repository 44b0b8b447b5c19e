// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// seq packs the block number and the index of the row within the block.
const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	blockHash BLOB(32) NOT NULL,
	blockTime INTEGER NOT NULL,
	txHash BLOB(32) NOT NULL,
	txIndex INTEGER NOT NULL,
	address BLOB(20) NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	data BLOB
);
CREATE INDEX IF NOT EXISTS event_i0 ON event(address, seq);
CREATE INDEX IF NOT EXISTS event_i1 ON event(topic0, seq);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic1, seq);
CREATE INDEX IF NOT EXISTS event_i3 ON event(topic2, seq);
CREATE INDEX IF NOT EXISTS event_i4 ON event(topic3, seq);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY NOT NULL,
	blockHash BLOB(32) NOT NULL,
	blockTime INTEGER NOT NULL,
	txHash BLOB(32) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	amount BLOB(32)
);
CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(sender, seq);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(recipient, seq);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(txHash);
`

	eventSelect    = "SELECT seq, blockHash, blockTime, txHash, txIndex, address, topic0, topic1, topic2, topic3, data FROM event"
	transferSelect = "SELECT seq, blockHash, blockTime, txHash, sender, recipient, amount FROM transfer"
)
