// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"encoding/binary"
	"fmt"
)

// Mint describes a token type.
type Mint struct {
	Authority       Address // may mint new supply
	FreezeAuthority Address // may freeze and thaw accounts of this mint
	Decimals        uint8
	Supply          uint64
}

func (m *Mint) ToString() string {
	return fmt.Sprintf("Mint(authority=%v, freezeAuthority=%v, decimals=%d, supply=%d)",
		m.Authority, m.FreezeAuthority, m.Decimals, m.Supply)
}

// TokenAccount holds a balance of a single mint. Owner is the only authority
// allowed to debit it.
type TokenAccount struct {
	Mint   Address
	Owner  Address
	Amount uint64
	Frozen bool
}

func (ta *TokenAccount) ToString() string {
	return fmt.Sprintf("TokenAccount(mint=%v, owner=%v, amount=%d, frozen=%v)",
		ta.Mint, ta.Owner, ta.Amount, ta.Frozen)
}

// MintAddress returns the address of a mint created by authority with salt.
func MintAddress(authority Address, salt uint64) Address {
	h := Blake2b([]byte("mint"), authority.Bytes(), uint64Bytes(salt))
	return BytesToAddress(h[12:])
}

// TokenAccountAddress returns the address of an account of mint owned by owner.
func TokenAccountAddress(owner, mint Address, salt uint64) Address {
	h := Blake2b([]byte("account"), owner.Bytes(), mint.Bytes(), uint64Bytes(salt))
	return BytesToAddress(h[12:])
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
