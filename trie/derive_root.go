// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethtrie "github.com/ethereum/go-ethereum/trie"
)

// DeriveRoot computes the root of an index keyed list, such as the
// transactions or receipts of a block.
func DeriveRoot(list types.DerivableList) common.Hash {
	return types.DeriveSha(list, ethtrie.NewStackTrie(nil))
}

// NewListHasher returns the hasher blocks are assembled with.
func NewListHasher() types.ListHasher {
	return ethtrie.NewStackTrie(nil)
}
