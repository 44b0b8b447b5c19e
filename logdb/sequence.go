// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "github.com/pkg/errors"

type sequence int64

const (
	indexBits   = 20
	maxIndex    = 1<<indexBits - 1
	maxBlockNum = 1<<(63-indexBits) - 1
)

func newSequence(blockNum uint64, index uint32) (sequence, error) {
	if blockNum > maxBlockNum {
		return 0, errors.Errorf("block number %d too large", blockNum)
	}
	if index > maxIndex {
		return 0, errors.Errorf("index %d too large", index)
	}
	return sequence(blockNum<<indexBits | uint64(index)), nil
}

func (s sequence) BlockNumber() uint64 {
	return uint64(s) >> indexBits
}

func (s sequence) Index() uint32 {
	return uint32(s & maxIndex)
}
