// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/meter"
)

// Account is a token account
type Account struct {
	Address meter.Address        `json:"address"`
	Mint    meter.Address        `json:"mint"`
	Owner   meter.Address        `json:"owner"`
	Amount  *math.HexOrDecimal64 `json:"amount"`
	Frozen  bool                 `json:"frozen"`
}

type Mint struct {
	Address         meter.Address        `json:"address"`
	Authority       meter.Address        `json:"authority"`
	FreezeAuthority meter.Address        `json:"freezeAuthority"`
	Decimals        uint8                `json:"decimals"`
	Supply          *math.HexOrDecimal64 `json:"supply"`
}

func convertAccount(addr meter.Address, acc *meter.TokenAccount) *Account {
	amount := math.HexOrDecimal64(acc.Amount)
	return &Account{
		Address: addr,
		Mint:    acc.Mint,
		Owner:   acc.Owner,
		Amount:  &amount,
		Frozen:  acc.Frozen,
	}
}

func convertMint(addr meter.Address, m *meter.Mint) *Mint {
	supply := math.HexOrDecimal64(m.Supply)
	return &Mint{
		Address:         addr,
		Authority:       m.Authority,
		FreezeAuthority: m.FreezeAuthority,
		Decimals:        m.Decimals,
		Supply:          &supply,
	}
}
