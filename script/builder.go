// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/token"
)

// Builder is used to build script data.
type Builder struct {
	Header  ScriptHeader
	Payload []byte
}

// SetVersion sets script's version.
func (b *Builder) SetVersion(v uint32) *Builder {
	b.Header.Version = v
	return b
}

func (b *Builder) SetModID(id uint32) *Builder {
	b.Header.ModID = id
	return b
}

func (b *Builder) SetPayload(p []byte) *Builder {
	b.Payload = p
	return b
}

// Build build a script object.
func (b *Builder) Build() *ScriptData {
	return &ScriptData{
		Header:  b.Header,
		Payload: b.Payload,
	}
}

// EncodeScriptData picks the module from the body type and returns script bytes
// ready to be put in a transaction.
func EncodeScriptData(body interface{}) ([]byte, error) {
	var modId uint32
	switch body.(type) {
	case auction.AuctionBody, *auction.AuctionBody:
		modId = AUCTION_MODULE_ID
	case token.TokenBody, *token.TokenBody:
		modId = TOKEN_MODULE_ID
	default:
		return nil, errors.New("unrecognized body")
	}
	payload, err := rlp.EncodeToBytes(body)
	if err != nil {
		return nil, err
	}
	return ScriptEncodeBytes(new(Builder).SetVersion(0).SetModID(modId).SetPayload(payload).Build())
}
