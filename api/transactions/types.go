// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// RawTx raw transaction
type RawTx struct {
	Raw string `json:"raw"`
}

func (rtx *RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(rtx.Raw)
	if err != nil {
		return nil, err
	}
	trx, err := tx.Decode(data)
	if err != nil {
		return nil, errors.WithMessage(err, "rlp")
	}
	return trx, nil
}

// LogMeta locates a log by the transaction that produced it.
type LogMeta struct {
	TxID     meter.Bytes32 `json:"txID"`
	TxOrigin meter.Address `json:"txOrigin"`
	Seq      uint64        `json:"seq"`
	TxTime   uint64        `json:"txTime"`
}

type Transfer struct {
	Sender    meter.Address        `json:"sender"`
	Recipient meter.Address        `json:"recipient"`
	Mint      meter.Address        `json:"mint"`
	Amount    *math.HexOrDecimal64 `json:"amount"`
}

type Event struct {
	Address meter.Address   `json:"address"`
	Topics  []meter.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
}

// Receipt for json marshal
type Receipt struct {
	TxID      meter.Bytes32 `json:"txID"`
	Seq       uint64        `json:"seq"`
	Time      uint64        `json:"time"`
	Origin    meter.Address `json:"origin"`
	Module    string        `json:"module"`
	Reverted  bool          `json:"reverted"`
	Error     string        `json:"error,omitempty"`
	Output    string        `json:"output"`
	Transfers []*Transfer   `json:"transfers"`
	Events    []*Event      `json:"events"`
}

func ConvertTransfer(t *tx.Transfer) *Transfer {
	amount := math.HexOrDecimal64(t.Amount)
	return &Transfer{
		Sender:    t.Sender,
		Recipient: t.Recipient,
		Mint:      t.Mint,
		Amount:    &amount,
	}
}

func ConvertEvent(e *tx.Event) *Event {
	return &Event{
		Address: e.Address,
		Topics:  e.Topics,
		Data:    hexutil.Encode(e.Data),
	}
}

func convertReceipt(r *script.Receipt) *Receipt {
	receipt := &Receipt{
		TxID:      r.TxID,
		Seq:       r.Seq,
		Time:      r.Time,
		Origin:    r.Origin,
		Module:    r.Module,
		Reverted:  r.Reverted,
		Error:     r.Error,
		Output:    hexutil.Encode(r.Output),
		Transfers: make([]*Transfer, len(r.Transfers)),
		Events:    make([]*Event, len(r.Events)),
	}
	for i, t := range r.Transfers {
		receipt.Transfers[i] = ConvertTransfer(t)
	}
	for i, e := range r.Events {
		receipt.Events[i] = ConvertEvent(e)
	}
	return receipt
}
