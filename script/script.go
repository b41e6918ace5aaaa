// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/meterio/meter-auction/logdb"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

var (
	ErrKnownTx       = errors.New("known transaction")
	ErrUnknownModule = errors.New("unknown module")
)

// ScriptEngine executes signed script transactions one at a time.
type ScriptEngine struct {
	state  *state.State
	ledger *token.Ledger
	logDB  *logdb.LogDB
	logger *slog.Logger
	modReg Registry

	mu    sync.Mutex
	feed  event.Feed
	scope event.SubscriptionScope
}

// NewScriptEngine creates the engine and registers all modules. logDB may be nil.
func NewScriptEngine(st *state.State, logDB *logdb.LogDB) *ScriptEngine {
	se := &ScriptEngine{
		state:  st,
		ledger: token.NewLedger(st),
		logDB:  logDB,
		logger: slog.Default().With("pkg", "se"),
	}
	se.StartAllModules()
	return se
}

func (se *ScriptEngine) StartAllModules() {
	ModuleTokenInit(se)
	ModuleAuctionInit(se)
}

func (se *ScriptEngine) State() *state.State   { return se.state }
func (se *ScriptEngine) Ledger() *token.Ledger { return se.ledger }
func (se *ScriptEngine) LogDB() *logdb.LogDB   { return se.logDB }
func (se *ScriptEngine) Modules() []Module     { return se.modReg.All() }

// Execute runs the transaction. A receipt is returned for every transaction that
// reached a module, along with the module error if the operation was reverted.
func (se *ScriptEngine) Execute(ctx context.Context, trx *tx.Transaction) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	receipt, modName, err := se.execute(ctx, trx)
	if receipt == nil {
		txCounter.WithLabelValues(modName, "rejected").Inc()
		return nil, err
	}
	txDuration.WithLabelValues(modName).Observe(time.Since(start).Seconds())
	if receipt.Reverted {
		txCounter.WithLabelValues(modName, "reverted").Inc()
	} else {
		txCounter.WithLabelValues(modName, "success").Inc()
	}

	se.feed.Send(receipt)
	return receipt, err
}

func (se *ScriptEngine) execute(ctx context.Context, trx *tx.Transaction) (*Receipt, string, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	txID := trx.ID()
	known, err := se.state.HasTx(txID)
	if err != nil {
		return nil, "", err
	}
	if known {
		return nil, "", ErrKnownTx
	}
	signers, err := trx.Signers()
	if err != nil {
		return nil, "", errors.WithMessage(err, "recover signers")
	}
	script, err := ScriptDecodeFromBytes(trx.Data())
	if err != nil {
		return nil, "", errors.WithMessage(err, "decode script")
	}
	mod, found := se.modReg.Find(script.Header.GetModID())
	if !found {
		return nil, "", errors.WithMessage(ErrUnknownModule, fmt.Sprint(script.Header.GetModID()))
	}

	seq, err := se.state.NextSeq()
	if err != nil {
		return nil, mod.Name(), err
	}
	txCtx := &setypes.TransactionContext{
		ID:     txID,
		Origin: signers[0],
		Nonce:  trx.Nonce(),
		Seq:    seq,
		Time:   uint64(time.Now().Unix()),
	}
	env := setypes.NewScriptEnv(se.state, se.ledger, txCtx, signers)

	output, execErr := mod.modHandler(env, script.Payload)
	if output == nil {
		output = env.GetOutput()
	}

	if err := se.state.NewStage().MarkTx(txID, seq).Commit(); err != nil {
		return nil, mod.Name(), err
	}

	receipt := newReceipt(txCtx, mod.Name(), output, execErr)
	if se.logDB != nil {
		// a reverted receipt carries no events
		if err := se.logDB.Prepare(seq, txCtx.Time).
			ForTransaction(txID, txCtx.Origin).
			Insert(receipt.Events, receipt.Transfers).
			Commit(ctx); err != nil {
			se.logger.Error("write logs failed", "txid", txID, "err", err)
		}
	}
	if execErr != nil {
		se.logger.Info("tx reverted", "txid", txID, "module", mod.Name(), "err", execErr)
	} else {
		se.logger.Debug("tx executed", "txid", txID, "module", mod.Name(), "seq", seq)
	}
	return receipt, mod.Name(), execErr
}

// SubscribeReceipts registers ch to receive the receipt of every executed transaction.
func (se *ScriptEngine) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	return se.scope.Track(se.feed.Subscribe(ch))
}

// Close ends all subscriptions.
func (se *ScriptEngine) Close() {
	se.scope.Close()
}
