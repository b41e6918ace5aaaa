// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"time"

	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// Bid accepts a price above the current one. The previous bidder is refunded
// first, then the new price is escrowed, and only then is the record written.
func (a *Auction) Bid(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var record *meter.Auction
	start := time.Now()
	defer func() {
		finish(env, record, err)
		a.logger.Debug("Bid completed", "elapsed", meter.PrettyDuration(time.Since(start)), "err", err)
	}()

	cur, err := loadOngoing(env.GetState(), ab.AuctionID)
	if err != nil {
		return
	}
	if !env.IsSigner(ab.Bidder) {
		err = authErr("bidder %v did not sign", ab.Bidder)
		return
	}
	if ab.Price <= cur.Price {
		a.logger.Info("bid too low", "auction", cur.ID, "price", ab.Price, "current", cur.Price)
		err = ErrBidTooLow
		return
	}

	ledger := env.GetLedger()
	funding, err := ledger.Account(ab.Funding)
	if err != nil {
		err = authErr("funding account %v: %v", ab.Funding, err)
		return
	}
	if !env.IsSigner(funding.Owner) {
		err = authErr("funding owner %v did not sign", funding.Owner)
		return
	}

	authority, bump, err := DeriveAuthority(cur.Seller)
	if err != nil {
		return
	}
	holder, err := checkOwner(ledger, cur.CurrencyHolder, authority, "currency holder")
	if err != nil {
		return
	}
	if funding.Mint != holder.Mint {
		err = authErr("funding account mint %v, expected %v", funding.Mint, holder.Mint)
		return
	}
	if !ab.RefundReceiver.IsZero() && ab.RefundReceiver != cur.RefundReceiver {
		err = authErr("refund receiver %v, recorded %v", ab.RefundReceiver, cur.RefundReceiver)
		return
	}

	// refund the outbid party
	refunded := false
	if cur.HasRefundReceiver() {
		if e := env.TransferDerived(cur.CurrencyHolder, cur.RefundReceiver, meter.AuctionProgramAddr,
			authoritySeeds(cur.Seller), bump, cur.Price); e != nil {
			a.logger.Error("refund failed", "auction", cur.ID, "receiver", cur.RefundReceiver, "amount", cur.Price, "err", e)
			err = &TransferError{Op: "refund", Err: e}
			return
		}
		refunded = true
	}

	// escrow the new bid
	if e := env.TransferSigned(ab.Funding, cur.CurrencyHolder, funding.Owner, ab.Price); e != nil {
		a.logger.Error("escrow failed", "auction", cur.ID, "funding", ab.Funding, "amount", ab.Price, "refunded", refunded, "err", e)
		err = &TransferError{Op: "escrow", Partial: refunded, Err: e}
		return
	}

	next := cur.Copy()
	next.Bidder = ab.Bidder
	next.RefundReceiver = ab.Funding
	next.Price = ab.Price
	ev := &BidEventData{Bidder: next.Bidder, Funding: next.RefundReceiver, Price: next.Price}
	if refunded {
		ev.RefundReceiver = cur.RefundReceiver
		ev.Refunded = cur.Price
	}
	if err = emit(env, AuctionBidEvent, next.ID, ev); err != nil {
		return
	}

	// the record write is the last step
	if err = env.GetState().SetAuction(next); err != nil {
		return
	}
	record = next
	a.logger.Info("bid accepted", "auction", next.ID, "bidder", next.Bidder, "price", next.Price, "refunded", refunded)
	return
}
