// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/meterio/meter-auction/meter"
)

// Event represents a script module event.
type Event struct {
	// address of the module emitting the event
	Address meter.Address
	// topics, topic 0 names the event
	Topics []meter.Bytes32
	// rlp encoded event data
	Data []byte
}

// Events slice of event logs.
type Events []*Event
