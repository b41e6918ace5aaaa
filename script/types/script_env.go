// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/tx"
)

// TransactionContext describes the transaction being executed.
type TransactionContext struct {
	ID     meter.Bytes32
	Origin meter.Address
	Nonce  uint64
	Seq    uint64
	Time   uint64
}

// ScriptEnv is what a module handler sees of the running transaction. It
// also collects the output the handler records.
type ScriptEnv struct {
	state   *state.State
	ledger  *token.Ledger
	txCtx   *TransactionContext
	signers map[meter.Address]bool

	returnData []byte
	transfers  []*tx.Transfer
	events     []*tx.Event
}

func NewScriptEnv(state *state.State, ledger *token.Ledger, txCtx *TransactionContext, signers []meter.Address) *ScriptEnv {
	signerSet := make(map[meter.Address]bool, len(signers))
	for _, s := range signers {
		signerSet[s] = true
	}
	return &ScriptEnv{
		state:      state,
		ledger:     ledger,
		txCtx:      txCtx,
		signers:    signerSet,
		returnData: make([]byte, 0),
		transfers:  make([]*tx.Transfer, 0),
		events:     make([]*tx.Event, 0),
	}
}

func (env *ScriptEnv) GetState() *state.State           { return env.state }
func (env *ScriptEnv) GetLedger() *token.Ledger         { return env.ledger }
func (env *ScriptEnv) GetTxCtx() *TransactionContext    { return env.txCtx }
func (env *ScriptEnv) IsSigner(addr meter.Address) bool { return env.signers[addr] }

func (env *ScriptEnv) SetReturnData(data []byte) {
	env.returnData = data
}
func (env *ScriptEnv) GetReturnData() []byte {
	if env.returnData == nil || len(env.returnData) <= 0 {
		return nil
	}
	return env.returnData
}

func (env *ScriptEnv) AddTransfer(sender, recipient, mint meter.Address, amount uint64) {
	env.transfers = append(env.transfers, &tx.Transfer{
		Sender:    sender,
		Recipient: recipient,
		Mint:      mint,
		Amount:    amount,
	})
}

func (env *ScriptEnv) AddEvent(address meter.Address, topics []meter.Bytes32, data []byte) {
	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  topics,
		Data:    data,
	})
}

func (env *ScriptEnv) GetTransfers() tx.Transfers {
	return env.transfers
}

func (env *ScriptEnv) GetEvents() tx.Events {
	return env.events
}

func (env *ScriptEnv) GetOutput() *ScriptEngineOutput {
	return &ScriptEngineOutput{
		data:      env.GetReturnData(),
		transfers: env.transfers,
		events:    env.events,
	}
}
