// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

type tag int

const (
	tagLatest tag = iota
	tagEarliest
	tagPending
	tagSafe
	tagFinalized
)

var tagNames = map[string]tag{
	"latest":    tagLatest,
	"earliest":  tagEarliest,
	"pending":   tagPending,
	"safe":      tagSafe,
	"finalized": tagFinalized,
}

// Revision identifies a block by tag, number or hash.
type Revision struct {
	val any
}

// RevisionLatest is the best block.
var RevisionLatest = Revision{tagLatest}

// RevisionNumber returns the revision of the block at num.
func RevisionNumber(num uint64) Revision { return Revision{num} }

// RevisionHash returns the revision of the block with hash.
func RevisionHash(hash common.Hash) Revision { return Revision{hash} }

// IsPending reports whether the revision asks for the pending block.
func (rev Revision) IsPending() bool {
	return rev.val == tagPending
}

func (rev Revision) String() string {
	switch v := rev.val.(type) {
	case tag:
		for name, t := range tagNames {
			if t == v {
				return name
			}
		}
	case uint64:
		return hexutil.EncodeUint64(v)
	case common.Hash:
		return v.Hex()
	}
	return "latest"
}

// ParseRevision parses a tag (latest, earliest, pending, safe, finalized), a decimal or
// 0x prefixed block number or a 32 bytes block hash. The empty string means latest.
func ParseRevision(s string) (Revision, error) {
	if s == "" {
		return RevisionLatest, nil
	}
	if t, ok := tagNames[s]; ok {
		return Revision{t}, nil
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(hex) == 64 {
		b, err := hexutil.Decode("0x" + hex)
		if err != nil {
			return Revision{}, errors.Wrap(err, "invalid block hash")
		}
		return Revision{common.BytesToHash(b)}, nil
	}

	var (
		n   uint64
		err error
	)
	if hex != s {
		n, err = strconv.ParseUint(hex, 16, 64)
	} else {
		n, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return Revision{}, errors.Errorf("invalid revision %q", s)
	}
	return Revision{n}, nil
}
