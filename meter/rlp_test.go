// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuctionRLP(t *testing.T) {
	a := meter.NewAuction(meter.Blake2b([]byte("id")),
		meter.BytesToAddress([]byte("seller")),
		meter.BytesToAddress([]byte("item")),
		meter.BytesToAddress([]byte("currency")),
		100)

	b, err := rlp.EncodeToBytes(a)
	require.NoError(t, err)

	var decoded meter.Auction
	require.NoError(t, rlp.DecodeBytes(b, &decoded))
	assert.Equal(t, *a, decoded)
	assert.True(t, decoded.Ongoing)
	assert.False(t, decoded.HasRefundReceiver())
	assert.Equal(t, decoded.Seller, decoded.Bidder)
}

func TestTokenAccountRLP(t *testing.T) {
	ta := &meter.TokenAccount{
		Mint:   meter.BytesToAddress([]byte("mint")),
		Owner:  meter.BytesToAddress([]byte("owner")),
		Amount: 1 << 63,
		Frozen: true,
	}
	b, err := rlp.EncodeToBytes(ta)
	require.NoError(t, err)

	var decoded meter.TokenAccount
	require.NoError(t, rlp.DecodeBytes(b, &decoded))
	assert.Equal(t, *ta, decoded)
}

func TestParseAddress(t *testing.T) {
	addr := meter.BytesToAddress([]byte("seller"))
	parsed, err := meter.ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = meter.ParseAddress("0x1234")
	assert.Error(t, err)
	_, err = meter.ParseAddress("zz" + addr.String()[2:])
	assert.Error(t, err)

	js, err := addr.MarshalJSON()
	require.NoError(t, err)
	var back meter.Address
	require.NoError(t, back.UnmarshalJSON(js))
	assert.Equal(t, addr, back)
}

func TestTokenAddresses(t *testing.T) {
	owner := meter.BytesToAddress([]byte("owner"))
	mint := meter.MintAddress(owner, 1)
	assert.Equal(t, mint, meter.MintAddress(owner, 1))
	assert.NotEqual(t, mint, meter.MintAddress(owner, 2))

	acc := meter.TokenAccountAddress(owner, mint, 0)
	assert.NotEqual(t, acc, meter.TokenAccountAddress(owner, mint, 1))
	assert.NotEqual(t, acc, meter.TokenAccountAddress(mint, owner, 0))
}
