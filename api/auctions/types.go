// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"github.com/meterio/meter-auction/meter"
)

type Auction struct {
	ID             meter.Bytes32 `json:"id"`
	Ongoing        bool          `json:"ongoing"`
	Seller         meter.Address `json:"seller"`
	ItemHolder     meter.Address `json:"itemHolder"`
	CurrencyHolder meter.Address `json:"currencyHolder"`
	Bidder         meter.Address `json:"bidder"`
	RefundReceiver meter.Address `json:"refundReceiver"`
	Price          uint64        `json:"price"`
}

func convertAuction(a *meter.Auction) *Auction {
	return &Auction{
		ID:             a.ID,
		Ongoing:        a.Ongoing,
		Seller:         a.Seller,
		ItemHolder:     a.ItemHolder,
		CurrencyHolder: a.CurrencyHolder,
		Bidder:         a.Bidder,
		RefundReceiver: a.RefundReceiver,
		Price:          a.Price,
	}
}

type Authority struct {
	Seller    meter.Address `json:"seller"`
	Authority meter.Address `json:"authority"`
	Bump      uint8         `json:"bump"`
}
