// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token_test

import (
	"errors"
	"math"
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	authority = meter.BytesToAddress([]byte("authority"))
	alice     = meter.BytesToAddress([]byte("alice"))
	bob       = meter.BytesToAddress([]byte("bob"))
)

type fixture struct {
	ledger *token.Ledger
	mint   meter.Address
	aliceA meter.Address
	bobA   meter.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := token.NewLedger(state.New(db))
	mint := meter.MintAddress(authority, 0)
	require.NoError(t, l.InitMint(mint, &meter.Mint{Authority: authority, FreezeAuthority: authority}))

	f := &fixture{
		ledger: l,
		mint:   mint,
		aliceA: meter.TokenAccountAddress(alice, mint, 0),
		bobA:   meter.TokenAccountAddress(bob, mint, 0),
	}
	require.NoError(t, l.InitAccount(f.aliceA, &meter.TokenAccount{Mint: mint, Owner: alice}))
	require.NoError(t, l.InitAccount(f.bobA, &meter.TokenAccount{Mint: mint, Owner: bob}))
	require.NoError(t, l.MintTo(mint, f.aliceA, authority, 1000))
	return f
}

func balance(t *testing.T, l *token.Ledger, addr meter.Address) uint64 {
	b, err := l.Balance(addr)
	require.NoError(t, err)
	return b
}

func TestTransfer(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ledger.Transfer(f.aliceA, f.bobA, alice, 400))
	assert.Equal(t, uint64(600), balance(t, f.ledger, f.aliceA))
	assert.Equal(t, uint64(400), balance(t, f.ledger, f.bobA))

	// zero amount is a valid transfer
	require.NoError(t, f.ledger.Transfer(f.bobA, f.aliceA, bob, 0))

	m, err := f.ledger.Mint(f.mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), m.Supply)
}

func TestTransferFailures(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, token.ErrOwnerMismatch, f.ledger.Transfer(f.aliceA, f.bobA, bob, 1))
	assert.Equal(t, token.ErrInsufficientFunds, f.ledger.Transfer(f.aliceA, f.bobA, alice, 1001))

	err := f.ledger.Transfer(f.aliceA, meter.BytesToAddress([]byte("nobody")), alice, 1)
	assert.True(t, errors.Is(err, token.ErrAccountNotFound))

	otherMint := meter.MintAddress(authority, 1)
	require.NoError(t, f.ledger.InitMint(otherMint, &meter.Mint{Authority: authority}))
	other := meter.TokenAccountAddress(bob, otherMint, 0)
	require.NoError(t, f.ledger.InitAccount(other, &meter.TokenAccount{Mint: otherMint, Owner: bob}))
	assert.Equal(t, token.ErrMintMismatch, f.ledger.Transfer(f.aliceA, other, alice, 1))

	require.NoError(t, f.ledger.SetFrozen(f.bobA, authority, true))
	assert.Equal(t, token.ErrAccountFrozen, f.ledger.Transfer(f.aliceA, f.bobA, alice, 1))
	require.NoError(t, f.ledger.SetFrozen(f.bobA, authority, false))
	require.NoError(t, f.ledger.Transfer(f.aliceA, f.bobA, alice, 1))

	// failed transfers never touch balances
	assert.Equal(t, uint64(999), balance(t, f.ledger, f.aliceA))
	assert.Equal(t, uint64(1), balance(t, f.ledger, f.bobA))
}

func TestMintAndInit(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, token.ErrMintExists, f.ledger.InitMint(f.mint, &meter.Mint{Authority: authority}))
	assert.Equal(t, token.ErrAccountExists, f.ledger.InitAccount(f.aliceA, &meter.TokenAccount{Mint: f.mint, Owner: alice}))
	assert.Equal(t, token.ErrMintNotFound,
		f.ledger.InitAccount(meter.BytesToAddress([]byte("x")), &meter.TokenAccount{Mint: alice, Owner: alice}))

	assert.Equal(t, token.ErrOwnerMismatch, f.ledger.MintTo(f.mint, f.aliceA, alice, 1))
	assert.Equal(t, token.ErrOverflow, f.ledger.MintTo(f.mint, f.aliceA, authority, math.MaxUint64))
	assert.Equal(t, token.ErrOwnerMismatch, f.ledger.SetFrozen(f.aliceA, alice, true))
}
