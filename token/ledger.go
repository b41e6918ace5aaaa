// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"log/slog"
	"math"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

// Ledger moves token balances between accounts. The authority passed to the
// debiting calls is trusted to have been verified by the caller, either as a
// transaction signer or as a program derived address.
type Ledger struct {
	state  *state.State
	logger *slog.Logger
}

func NewLedger(st *state.State) *Ledger {
	return &Ledger{
		state:  st,
		logger: slog.Default().With("pkg", "token"),
	}
}

func (l *Ledger) InitMint(addr meter.Address, mint *meter.Mint) error {
	exists, err := l.state.HasMint(addr)
	if err != nil {
		return err
	}
	if exists {
		return ErrMintExists
	}
	mint.Supply = 0
	return l.state.NewStage().PutMint(addr, mint).Commit()
}

func (l *Ledger) InitAccount(addr meter.Address, acc *meter.TokenAccount) error {
	exists, err := l.state.HasTokenAccount(addr)
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountExists
	}
	if _, err := l.mint(acc.Mint); err != nil {
		return err
	}
	acc.Amount = 0
	acc.Frozen = false
	return l.state.NewStage().PutTokenAccount(addr, acc).Commit()
}

func (l *Ledger) State() *state.State { return l.state }

func (l *Ledger) Mint(addr meter.Address) (*meter.Mint, error) {
	return l.mint(addr)
}

func (l *Ledger) Account(addr meter.Address) (*meter.TokenAccount, error) {
	return l.account(addr)
}

// Balance returns the amount held by the account.
func (l *Ledger) Balance(addr meter.Address) (uint64, error) {
	acc, err := l.account(addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// MintTo creates new supply into the account.
func (l *Ledger) MintTo(mintAddr, to, authority meter.Address, amount uint64) error {
	m, err := l.mint(mintAddr)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return ErrOwnerMismatch
	}
	acc, err := l.account(to)
	if err != nil {
		return err
	}
	if acc.Mint != mintAddr {
		return ErrMintMismatch
	}
	if acc.Frozen {
		return ErrAccountFrozen
	}
	if m.Supply > math.MaxUint64-amount || acc.Amount > math.MaxUint64-amount {
		return ErrOverflow
	}
	m.Supply += amount
	acc.Amount += amount
	return l.state.NewStage().PutMint(mintAddr, m).PutTokenAccount(to, acc).Commit()
}

// Transfer debits from and credits to. Both accounts are written in one batch,
// so a transfer either fully happens or leaves both balances untouched.
func (l *Ledger) Transfer(from, to, authority meter.Address, amount uint64) error {
	src, err := l.account(from)
	if err != nil {
		return errors.WithMessage(err, "from")
	}
	dst, err := l.account(to)
	if err != nil {
		return errors.WithMessage(err, "to")
	}
	if src.Owner != authority {
		return ErrOwnerMismatch
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Frozen || dst.Frozen {
		return ErrAccountFrozen
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return ErrOverflow
	}
	src.Amount -= amount
	dst.Amount += amount
	if err := l.state.NewStage().PutTokenAccount(from, src).PutTokenAccount(to, dst).Commit(); err != nil {
		return err
	}
	l.logger.Debug("transferred", "from", from, "to", to, "amount", amount)
	return nil
}

// SetFrozen freezes or thaws an account. Only the freeze authority of its mint may do so.
func (l *Ledger) SetFrozen(addr, authority meter.Address, frozen bool) error {
	acc, err := l.account(addr)
	if err != nil {
		return err
	}
	m, err := l.mint(acc.Mint)
	if err != nil {
		return err
	}
	if m.FreezeAuthority.IsZero() || m.FreezeAuthority != authority {
		return ErrOwnerMismatch
	}
	acc.Frozen = frozen
	return l.state.NewStage().PutTokenAccount(addr, acc).Commit()
}

func (l *Ledger) account(addr meter.Address) (*meter.TokenAccount, error) {
	acc, err := l.state.GetTokenAccount(addr)
	if err == state.ErrNotFound {
		return nil, ErrAccountNotFound
	}
	return acc, err
}

func (l *Ledger) mint(addr meter.Address) (*meter.Mint, error) {
	m, err := l.state.GetMint(addr)
	if err == state.ErrNotFound {
		return nil, ErrMintNotFound
	}
	return m, err
}
