// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
)

// Auction is the persisted record of a single-item auction.
type Auction struct {
	ID             Bytes32
	Ongoing        bool
	Seller         Address
	ItemHolder     Address
	CurrencyHolder Address
	Bidder         Address
	RefundReceiver Address // zero until the first accepted bid
	Price          uint64
}

func NewAuction(id Bytes32, seller, itemHolder, currencyHolder Address, startPrice uint64) *Auction {
	return &Auction{
		ID:             id,
		Ongoing:        true,
		Seller:         seller,
		ItemHolder:     itemHolder,
		CurrencyHolder: currencyHolder,
		Bidder:         seller,
		Price:          startPrice,
	}
}

func (a *Auction) HasRefundReceiver() bool {
	return !a.RefundReceiver.IsZero()
}

func (a *Auction) Copy() *Auction {
	cpy := *a
	return &cpy
}

func (a *Auction) ToString() string {
	if a == nil {
		return "Auction(nil)"
	}
	return fmt.Sprintf("Auction(%v) Ongoing=%v, Seller=%v, ItemHolder=%v, CurrencyHolder=%v, Bidder=%v, RefundReceiver=%v, Price=%d",
		a.ID.AbbrevString(), a.Ongoing, a.Seller, a.ItemHolder, a.CurrencyHolder, a.Bidder, a.RefundReceiver, a.Price)
}
