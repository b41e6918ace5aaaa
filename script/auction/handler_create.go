// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
)

// CreateAuction binds a new record to two holding accounts already owned by the
// seller's derived authority. No funds move.
func (a *Auction) CreateAuction(env *setypes.ScriptEnv, ab *AuctionBody) (err error) {
	var record *meter.Auction
	defer func() { finish(env, record, err) }()

	if !env.IsSigner(ab.Seller) {
		err = authErr("seller %v did not sign", ab.Seller)
		return
	}
	if ab.ItemHolder == ab.CurrencyHolder {
		err = authErr("item holder and currency holder must differ")
		return
	}

	authority, _, err := DeriveAuthority(ab.Seller)
	if err != nil {
		return
	}
	ledger := env.GetLedger()
	if _, err = checkOwner(ledger, ab.ItemHolder, authority, "item holder"); err != nil {
		a.logger.Info("create rejected", "auction", ab.AuctionID, "err", err)
		return
	}
	if _, err = checkOwner(ledger, ab.CurrencyHolder, authority, "currency holder"); err != nil {
		a.logger.Info("create rejected", "auction", ab.AuctionID, "err", err)
		return
	}

	next := meter.NewAuction(ab.AuctionID, ab.Seller, ab.ItemHolder, ab.CurrencyHolder, ab.Price)
	if err = emit(env, AuctionCreatedEvent, next.ID, &CreatedEventData{next.Seller, next.Price}); err != nil {
		return
	}
	if err = env.GetState().CreateAuction(next); err != nil {
		if err == state.ErrExists {
			err = ErrAuctionExists
		}
		return
	}
	record = next
	createdCounter.Inc()
	a.logger.Info("auction created", "auction", record.ID, "seller", record.Seller, "price", record.Price)
	return
}
