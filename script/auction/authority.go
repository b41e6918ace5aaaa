// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/meter"
)

// DeriveAuthority returns the custodial authority of the seller's holding
// accounts and the bump that makes it a valid program address. It is never
// stored, every caller derives it again from the seller.
func DeriveAuthority(seller meter.Address) (meter.Address, uint8, error) {
	return meter.FindProgramAddress(authoritySeeds(seller), meter.AuctionProgramAddr)
}

func authoritySeeds(seller meter.Address) [][]byte {
	return [][]byte{seller.Bytes()}
}
