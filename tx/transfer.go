// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/meterio/meter-auction/meter"
)

// Transfer token transfer log.
type Transfer struct {
	Sender    meter.Address // debited token account
	Recipient meter.Address // credited token account
	Mint      meter.Address
	Amount    uint64
}

// Transfers slisce of transfer logs.
type Transfers []*Transfer
