// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/tx"
)

// Receipt is the outcome of an executed transaction.
type Receipt struct {
	TxID      meter.Bytes32
	Seq       uint64
	Time      uint64
	Origin    meter.Address
	Module    string
	Reverted  bool
	Error     string
	Output    []byte
	Transfers tx.Transfers
	// events are dropped when reverted
	Events tx.Events
}

func newReceipt(txCtx *setypes.TransactionContext, module string, output *setypes.ScriptEngineOutput, err error) *Receipt {
	r := &Receipt{
		TxID:      txCtx.ID,
		Seq:       txCtx.Seq,
		Time:      txCtx.Time,
		Origin:    txCtx.Origin,
		Module:    module,
		Output:    output.GetData(),
		Transfers: output.GetTransfers(),
	}
	if err != nil {
		r.Reverted = true
		r.Error = err.Error()
	} else {
		r.Events = output.GetEvents()
	}
	return r
}
