// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

//Event represents tx.Event that can be stored in db.
type Event struct {
	Seq      uint64
	Index    uint32
	TxTime   uint64
	TxID     meter.Bytes32
	TxOrigin meter.Address // first signer of the transaction
	Address  meter.Address // always a module address
	Topics   [5]*meter.Bytes32
	Data     []byte
}

//newEvent converts tx.Event to Event.
func newEvent(seq, txTime uint64, index uint32, txID meter.Bytes32, txOrigin meter.Address, txEvent *tx.Event) *Event {
	ev := &Event{
		Seq:      seq,
		Index:    index,
		TxTime:   txTime,
		TxID:     txID,
		TxOrigin: txOrigin,
		Address:  txEvent.Address,
		Data:     txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

//Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	Seq       uint64
	Index     uint32
	TxTime    uint64
	TxID      meter.Bytes32
	TxOrigin  meter.Address
	Sender    meter.Address
	Recipient meter.Address
	Mint      meter.Address
	Amount    uint64
}

//newTransfer converts tx.Transfer to Transfer.
func newTransfer(seq, txTime uint64, index uint32, txID meter.Bytes32, txOrigin meter.Address, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		Seq:       seq,
		Index:     index,
		TxTime:    txTime,
		TxID:      txID,
		TxOrigin:  txOrigin,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Mint:      transfer.Mint,
		Amount:    transfer.Amount,
	}
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *meter.Address // always a module address
	Topics  [5]*meter.Bytes32
}

//EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}

type TransferCriteria struct {
	TxOrigin  *meter.Address //who send transaction
	Sender    *meter.Address //debited account
	Recipient *meter.Address //credited account
	Mint      *meter.Address
}

type TransferFilter struct {
	TxID        *meter.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}
