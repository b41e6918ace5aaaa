// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// CloseAuction releases the item to the winner and the price to the seller's
// receiver, then marks the record concluded. The currency release is skipped,
// not failed, when the holder can not cover the price.
func (a *Auction) CloseAuction(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var record *meter.Auction
	defer func() { finish(env, record, err) }()

	cur, err := loadOngoing(env.GetState(), ab.AuctionID)
	if err != nil {
		return
	}
	if !env.IsSigner(ab.Seller) || ab.Seller != cur.Seller {
		err = authErr("close must be signed by seller %v", cur.Seller)
		return
	}

	authority, bump, err := DeriveAuthority(cur.Seller)
	if err != nil {
		return
	}
	ledger := env.GetLedger()
	item, err := checkOwner(ledger, cur.ItemHolder, authority, "item holder")
	if err != nil {
		return
	}
	currency, err := checkOwner(ledger, cur.CurrencyHolder, authority, "currency holder")
	if err != nil {
		return
	}
	itemReceiver, err := checkOwner(ledger, ab.ItemReceiver, cur.Bidder, "item receiver")
	if err != nil {
		return
	}
	currencyReceiver, e := ledger.Account(ab.CurrencyReceiver)
	if e != nil {
		err = authErr("currency receiver %v: %v", ab.CurrencyReceiver, e)
		return
	}

	// both releases must be able to complete before the first one moves
	if err = checkRelease(cur.ItemHolder, item, ab.ItemReceiver, itemReceiver, "item"); err != nil {
		a.logger.Info("close rejected", "auction", cur.ID, "err", err)
		return
	}
	if err = checkRelease(cur.CurrencyHolder, currency, ab.CurrencyReceiver, currencyReceiver, "currency"); err != nil {
		a.logger.Info("close rejected", "auction", cur.ID, "err", err)
		return
	}

	seeds := authoritySeeds(cur.Seller)
	if e := env.TransferDerived(cur.ItemHolder, ab.ItemReceiver, meter.AuctionProgramAddr, seeds, bump, item.Amount); e != nil {
		a.logger.Error("item release failed", "auction", cur.ID, "receiver", ab.ItemReceiver, "err", e)
		err = &TransferError{Op: "item", Err: e}
		return
	}

	skipped := currency.Amount < cur.Price
	if skipped {
		a.logger.Warn("currency holder can not cover price, release skipped",
			"auction", cur.ID, "balance", currency.Amount, "price", cur.Price)
		skippedReleaseCounter.Inc()
	} else if e := env.TransferDerived(cur.CurrencyHolder, ab.CurrencyReceiver, meter.AuctionProgramAddr, seeds, bump, cur.Price); e != nil {
		a.logger.Error("currency release failed", "auction", cur.ID, "receiver", ab.CurrencyReceiver, "err", e)
		err = &TransferError{Op: "currency", Partial: item.Amount > 0, Err: e}
		return
	}

	next := cur.Copy()
	next.Ongoing = false
	if err = emit(env, AuctionClosedEvent, next.ID, &ClosedEventData{
		Winner:          next.Bidder,
		Price:           next.Price,
		ItemAmount:      item.Amount,
		CurrencySkipped: skipped,
	}); err != nil {
		return
	}
	if err = env.GetState().SetAuction(next); err != nil {
		return
	}
	record = next
	closedCounter.Inc()
	a.logger.Info("auction closed", "auction", next.ID, "winner", next.Bidder, "price", next.Price, "skipped", skipped)
	return
}
