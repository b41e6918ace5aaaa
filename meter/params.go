// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

// Program addresses. Accounts owned by addresses derived from these are
// controlled by the corresponding script module.
var (
	AuctionProgramAddr = BytesToAddress([]byte("auction-program-address"))
	TokenProgramAddr   = BytesToAddress([]byte("token-program-address"))
)

// Storage key prefixes.
var (
	AuctionKeyPrefix = []byte("auction")
	MintKeyPrefix    = []byte("mint")
	AccountKeyPrefix = []byte("account")
	TxKeyPrefix      = []byte("tx")
	SeqKey           = []byte("seq")
)
