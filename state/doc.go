// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state holds the mutable world state seen by the EVM.
// It follows the flow as below:
//
//	   [ Store (Overlay / fork.Store) ]
//	                 |
//	          [ stacked map ] -> [ journal ] -> [ flatten ] -> [ frozen view / dump / trie root ]
//	                 |
//	          [ base Reader ]  (empty, a live store, a frozen view or a remote cache)
//
// Every write lands in the stacked map, a snapshot pushes a level and a revert pops
// back to it. Nothing ever writes to the base.
package state
