// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"log/slog"

	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

var errUnknownOpcode = errors.New("unknown token opcode")

// Token is the script module fronting the token ledger.
type Token struct {
	logger *slog.Logger
}

func NewToken() *Token {
	return &Token{logger: slog.Default().With("pkg", "token")}
}

func (t *Token) Handle(env *setypes.ScriptEnv, payload []byte) (*setypes.ScriptEngineOutput, error) {
	tb, err := TokenDecodeFromBytes(payload)
	if err != nil {
		t.logger.Error("Decode script message failed", "error", err)
		return nil, err
	}
	t.logger.Debug("received token op", "body", tb.ToString())

	var ret []byte
	switch tb.Opcode {
	case OP_INIT_MINT:
		ret, err = t.initMint(env, tb)
	case OP_INIT_ACCOUNT:
		ret, err = t.initAccount(env, tb)
	case OP_MINT_TO:
		err = t.mintTo(env, tb)
	case OP_TRANSFER:
		err = t.transfer(env, tb)
	case OP_FREEZE:
		err = t.setFrozen(env, tb, true)
	case OP_THAW:
		err = t.setFrozen(env, tb, false)
	default:
		err = errUnknownOpcode
	}
	if err != nil {
		ret = []byte(err.Error())
	}
	env.SetReturnData(ret)
	return env.GetOutput(), err
}

func (t *Token) initMint(env *setypes.ScriptEnv, tb *TokenBody) ([]byte, error) {
	if !env.IsSigner(tb.Authority) {
		return nil, setypes.ErrNotSigner
	}
	addr := meter.MintAddress(tb.Authority, tb.Salt)
	if err := env.GetLedger().InitMint(addr, &meter.Mint{
		Authority:       tb.Authority,
		FreezeAuthority: tb.FreezeAuthority,
		Decimals:        tb.Decimals,
	}); err != nil {
		return nil, err
	}
	t.logger.Info("mint created", "mint", addr, "authority", tb.Authority)
	return addr.Bytes(), nil
}

// initAccount needs no signature from the owner, so accounts can be opened for program derived owners.
func (t *Token) initAccount(env *setypes.ScriptEnv, tb *TokenBody) ([]byte, error) {
	addr := meter.TokenAccountAddress(tb.Owner, tb.Mint, tb.Salt)
	if err := env.GetLedger().InitAccount(addr, &meter.TokenAccount{
		Mint:  tb.Mint,
		Owner: tb.Owner,
	}); err != nil {
		return nil, err
	}
	t.logger.Info("token account created", "account", addr, "owner", tb.Owner, "mint", tb.Mint)
	return addr.Bytes(), nil
}

func (t *Token) mintTo(env *setypes.ScriptEnv, tb *TokenBody) error {
	if !env.IsSigner(tb.Authority) {
		return setypes.ErrNotSigner
	}
	if err := env.GetLedger().MintTo(tb.Mint, tb.Account, tb.Authority, tb.Amount); err != nil {
		return err
	}
	env.AddTransfer(tb.Mint, tb.Account, tb.Mint, tb.Amount)
	return nil
}

func (t *Token) transfer(env *setypes.ScriptEnv, tb *TokenBody) error {
	acc, err := env.GetLedger().Account(tb.Account)
	if err != nil {
		return err
	}
	return env.TransferSigned(tb.Account, tb.To, acc.Owner, tb.Amount)
}

func (t *Token) setFrozen(env *setypes.ScriptEnv, tb *TokenBody, frozen bool) error {
	if !env.IsSigner(tb.Authority) {
		return setypes.ErrNotSigner
	}
	return env.GetLedger().SetFrozen(tb.Account, tb.Authority, frozen)
}
