// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

const (
	OP_INIT_MINT    = uint32(1)
	OP_INIT_ACCOUNT = uint32(2)
	OP_MINT_TO      = uint32(3)
	OP_TRANSFER     = uint32(4)
	OP_FREEZE       = uint32(5)
	OP_THAW         = uint32(6)
)

type TokenBody struct {
	Opcode          uint32
	Version         uint32
	Authority       meter.Address
	FreezeAuthority meter.Address
	Decimals        uint8
	Mint            meter.Address
	Owner           meter.Address
	Account         meter.Address // source account for transfer, target for mint/freeze/thaw
	To              meter.Address
	Amount          uint64
	Salt            uint64
}

func (tb *TokenBody) ToString() string {
	return fmt.Sprintf("TokenBody: Opcode=%v, Authority=%v, Mint=%v, Owner=%v, Account=%v, To=%v, Amount=%v, Salt=%v",
		tb.GetOpName(tb.Opcode), tb.Authority, tb.Mint, tb.Owner, tb.Account, tb.To, tb.Amount, tb.Salt)
}

func (tb *TokenBody) GetOpName(op uint32) string {
	switch op {
	case OP_INIT_MINT:
		return "InitMint"
	case OP_INIT_ACCOUNT:
		return "InitAccount"
	case OP_MINT_TO:
		return "MintTo"
	case OP_TRANSFER:
		return "Transfer"
	case OP_FREEZE:
		return "Freeze"
	case OP_THAW:
		return "Thaw"
	default:
		return "Unknown"
	}
}

func TokenDecodeFromBytes(bytes []byte) (*TokenBody, error) {
	tb := TokenBody{}
	err := rlp.DecodeBytes(bytes, &tb)
	return &tb, err
}
