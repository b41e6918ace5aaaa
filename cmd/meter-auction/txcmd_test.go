// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/token"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"
)

func newContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestAuctionBodies(t *testing.T) {
	signer := meter.BytesToAddress([]byte("signer"))
	funding := meter.BytesToAddress([]byte("funding"))
	id := meter.Blake2b([]byte("auction"))

	flags := []cli.Flag{idFlag, fundingFlag, refundReceiverFlag, priceFlag}
	body, err := bidBody(newContext(t, flags, "-id", id.String(), "-funding", funding.String(), "-price", "150"), signer)
	require.NoError(t, err)
	assert.Equal(t, auction.NewBidBody(id, signer, funding, meter.Address{}, 150), body)

	_, err = bidBody(newContext(t, flags, "-funding", funding.String()), signer)
	assert.Error(t, err, "id required")

	_, err = bidBody(newContext(t, flags, "-id", id.String(), "-funding", "0x01"), signer)
	assert.Error(t, err, "bad address")

	// create picks a fresh id when none is given
	flags = []cli.Flag{idFlag, itemHolderFlag, currencyHolderFlag, priceFlag}
	args := []string{"-item-holder", funding.String(), "-currency-holder", signer.String()}
	a, err := createBody(newContext(t, flags, args...), signer)
	require.NoError(t, err)
	b, err := createBody(newContext(t, flags, args...), signer)
	require.NoError(t, err)
	assert.False(t, a.(*auction.AuctionBody).AuctionID.IsZero())
	assert.NotEqual(t, a.(*auction.AuctionBody).AuctionID, b.(*auction.AuctionBody).AuctionID)

	flags = []cli.Flag{idFlag, itemReceiverFlag, currencyReceiverFlag}
	_, err = closeBody(newContext(t, flags, "-id", id.String(), "-item-receiver", funding.String()), signer)
	assert.Error(t, err, "currency receiver required")
}

func TestTokenBodies(t *testing.T) {
	signer := meter.BytesToAddress([]byte("signer"))
	mint := meter.MintAddress(signer, 7)

	body, err := mintBody(newContext(t, []cli.Flag{saltFlag, decimalsFlag, freezeAuthorityFlag}, "-salt", "7", "-decimals", "6"), signer)
	require.NoError(t, err)
	assert.Equal(t, &token.TokenBody{Opcode: token.OP_INIT_MINT, Authority: signer, Decimals: 6, Salt: 7}, body)

	_, err = mintBody(newContext(t, []cli.Flag{saltFlag, decimalsFlag, freezeAuthorityFlag}, "-decimals", "256"), signer)
	assert.Error(t, err)

	body, err = accountBody(newContext(t, []cli.Flag{mintFlag, ownerFlag, saltFlag}, "-mint", mint.String()), signer)
	require.NoError(t, err)
	assert.Equal(t, signer, body.(*token.TokenBody).Owner)

	body, err = freezeBody(token.OP_THAW)(newContext(t, []cli.Flag{accountFlag}, "-account", mint.String()), signer)
	require.NoError(t, err)
	assert.Equal(t, token.OP_THAW, body.(*token.TokenBody).Opcode)
}

func TestSubmitTx(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	defer logDB.Close()
	engine := script.NewScriptEngine(state.New(db), logDB)
	defer engine.Close()

	handler, closeAPI := api.New(engine, "")
	defer closeAPI()
	ts := httptest.NewServer(handler)
	defer ts.Close()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := keyAddress(key)

	data, err := script.EncodeScriptData(&token.TokenBody{Opcode: token.OP_INIT_MINT, Authority: signer, Salt: 1})
	require.NoError(t, err)
	trx, err := tx.New(1, data).Sign(key)
	require.NoError(t, err)
	raw, err := trx.Encode()
	require.NoError(t, err)

	receipt, err := submitTx(ts.URL+"/", raw)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, trx.ID(), receipt.TxID)
	assert.Equal(t, signer, receipt.Origin)

	// replay is rejected without a receipt
	receipt, err = submitTx(ts.URL, raw)
	assert.Error(t, err)
	assert.Nil(t, receipt)

	// a second mint at the same address executes but reverts
	trx, err = tx.New(2, data).Sign(key)
	require.NoError(t, err)
	raw, err = trx.Encode()
	require.NoError(t, err)
	receipt, err = submitTx(ts.URL, raw)
	assert.Error(t, err)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Reverted)
	assert.NotEmpty(t, receipt.Error)
}
