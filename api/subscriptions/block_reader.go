// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/vechain/ethdev/chain"
)

// maxBatch bounds the blocks returned by a single read.
const maxBatch = 100

type blockReader struct {
	repo *chain.Repository
	next uint64
}

func newBlockReader(repo *chain.Repository, position uint64) *blockReader {
	return &blockReader{
		repo: repo,
		next: position,
	}
}

// Read returns the blocks between the reader position and the best block.
// The chain is append only, so a read never reports removed blocks.
func (br *blockReader) Read() ([]any, error) {
	best := br.repo.BestNumber()
	var msgs []any
	for br.next <= best && len(msgs) < maxBatch {
		blk, err := br.repo.GetBlockByNumber(br.next)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, convertBlock(blk))
		br.next++
	}
	return msgs, nil
}
