// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"errors"

	"github.com/meterio/meter-auction/meter"
)

var ErrNotSigner = errors.New("authority did not sign the transaction")

// TransferSigned moves amount out of an account whose owner signed the transaction.
func (env *ScriptEnv) TransferSigned(from, to, owner meter.Address, amount uint64) error {
	if !env.IsSigner(owner) {
		return ErrNotSigner
	}
	return env.transfer(from, to, owner, amount)
}

// TransferDerived moves amount out of an account owned by a program derived
// address. The authority is rebuilt from seeds and bump on every call.
func (env *ScriptEnv) TransferDerived(from, to, program meter.Address, seeds [][]byte, bump uint8, amount uint64) error {
	withBump := make([][]byte, 0, len(seeds)+1)
	withBump = append(withBump, seeds...)
	withBump = append(withBump, []byte{bump})
	authority, err := meter.CreateProgramAddress(withBump, program)
	if err != nil {
		return err
	}
	return env.transfer(from, to, authority, amount)
}

func (env *ScriptEnv) transfer(from, to, authority meter.Address, amount uint64) error {
	if err := env.ledger.Transfer(from, to, authority, amount); err != nil {
		return err
	}
	if amount == 0 || from == to {
		return nil
	}
	acc, err := env.ledger.Account(to)
	if err != nil {
		return err
	}
	env.AddTransfer(from, to, acc.Mint, amount)
	return nil
}
