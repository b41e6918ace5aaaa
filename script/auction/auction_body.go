// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

const (
	OP_CREATE = uint32(1)
	OP_BID    = uint32(2)
	OP_CLOSE  = uint32(3)
)

// AuctionBody is the payload of an auction script. Each opcode reads its own subset of fields.
type AuctionBody struct {
	Opcode    uint32
	Version   uint32
	AuctionID meter.Bytes32

	// create
	Seller         meter.Address
	ItemHolder     meter.Address
	CurrencyHolder meter.Address

	// bid
	Bidder         meter.Address
	Funding        meter.Address
	RefundReceiver meter.Address // expected refund receiver, zero to accept the recorded one

	// close
	ItemReceiver     meter.Address
	CurrencyReceiver meter.Address

	Price uint64 // start price for create, offered price for bid
}

func NewCreateBody(id meter.Bytes32, seller, itemHolder, currencyHolder meter.Address, startPrice uint64) *AuctionBody {
	return &AuctionBody{
		Opcode:         OP_CREATE,
		AuctionID:      id,
		Seller:         seller,
		ItemHolder:     itemHolder,
		CurrencyHolder: currencyHolder,
		Price:          startPrice,
	}
}

func NewBidBody(id meter.Bytes32, bidder, funding, refundReceiver meter.Address, price uint64) *AuctionBody {
	return &AuctionBody{
		Opcode:         OP_BID,
		AuctionID:      id,
		Bidder:         bidder,
		Funding:        funding,
		RefundReceiver: refundReceiver,
		Price:          price,
	}
}

func NewCloseBody(id meter.Bytes32, seller, itemReceiver, currencyReceiver meter.Address) *AuctionBody {
	return &AuctionBody{
		Opcode:           OP_CLOSE,
		AuctionID:        id,
		Seller:           seller,
		ItemReceiver:     itemReceiver,
		CurrencyReceiver: currencyReceiver,
	}
}

func (ab *AuctionBody) ToString() string {
	switch ab.Opcode {
	case OP_CREATE:
		return fmt.Sprintf("AuctionBody: Opcode=%v, AuctionID=%v, Seller=%v, ItemHolder=%v, CurrencyHolder=%v, StartPrice=%v",
			ab.GetOpName(ab.Opcode), ab.AuctionID.AbbrevString(), ab.Seller, ab.ItemHolder, ab.CurrencyHolder, ab.Price)
	case OP_BID:
		return fmt.Sprintf("AuctionBody: Opcode=%v, AuctionID=%v, Bidder=%v, Funding=%v, RefundReceiver=%v, Price=%v",
			ab.GetOpName(ab.Opcode), ab.AuctionID.AbbrevString(), ab.Bidder, ab.Funding, ab.RefundReceiver, ab.Price)
	case OP_CLOSE:
		return fmt.Sprintf("AuctionBody: Opcode=%v, AuctionID=%v, Seller=%v, ItemReceiver=%v, CurrencyReceiver=%v",
			ab.GetOpName(ab.Opcode), ab.AuctionID.AbbrevString(), ab.Seller, ab.ItemReceiver, ab.CurrencyReceiver)
	default:
		return fmt.Sprintf("AuctionBody: Opcode=%v", ab.Opcode)
	}
}

func (ab *AuctionBody) String() string {
	return ab.ToString()
}

func (ab *AuctionBody) GetOpName(op uint32) string {
	switch op {
	case OP_CREATE:
		return "Create"
	case OP_BID:
		return "Bid"
	case OP_CLOSE:
		return "Close"
	default:
		return "Unknown"
	}
}

func AuctionEncodeBytes(ab *AuctionBody) []byte {
	auctionBytes, err := rlp.EncodeToBytes(ab)
	if err != nil {
		return []byte{}
	}
	return auctionBytes
}

func AuctionDecodeFromBytes(bytes []byte) (*AuctionBody, error) {
	ab := AuctionBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}
