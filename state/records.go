// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

// Auctions
func (s *State) GetAuction(id meter.Bytes32) (*meter.Auction, error) {
	var a meter.Auction
	if err := s.decode(key(meter.AuctionKeyPrefix, id.Bytes()), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *State) HasAuction(id meter.Bytes32) (bool, error) {
	return s.has(key(meter.AuctionKeyPrefix, id.Bytes()))
}

// CreateAuction stores a record under an unused id.
func (s *State) CreateAuction(a *meter.Auction) error {
	exists, err := s.HasAuction(a.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrExists
	}
	return s.SetAuction(a)
}

func (s *State) SetAuction(a *meter.Auction) error {
	return s.NewStage().PutAuction(a).Commit()
}

// Auctions lists every record, in key order.
func (s *State) Auctions() ([]*meter.Auction, error) {
	it := s.db.NewIterator(key(meter.AuctionKeyPrefix, nil))
	defer it.Release()

	auctions := make([]*meter.Auction, 0)
	for it.Next() {
		var a meter.Auction
		if err := rlp.DecodeBytes(it.Value(), &a); err != nil {
			return nil, errors.Wrap(err, "decode state")
		}
		auctions = append(auctions, &a)
	}
	return auctions, errors.Wrap(it.Error(), "iterate state")
}

// Mints
func (s *State) GetMint(addr meter.Address) (*meter.Mint, error) {
	var m meter.Mint
	if err := s.decode(key(meter.MintKeyPrefix, addr.Bytes()), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *State) HasMint(addr meter.Address) (bool, error) {
	return s.has(key(meter.MintKeyPrefix, addr.Bytes()))
}

// Token accounts
func (s *State) GetTokenAccount(addr meter.Address) (*meter.TokenAccount, error) {
	var acc meter.TokenAccount
	if err := s.decode(key(meter.AccountKeyPrefix, addr.Bytes()), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *State) HasTokenAccount(addr meter.Address) (bool, error) {
	return s.has(key(meter.AccountKeyPrefix, addr.Bytes()))
}

// Executed transactions
func (s *State) HasTx(id meter.Bytes32) (bool, error) {
	return s.has(key(meter.TxKeyPrefix, id.Bytes()))
}
