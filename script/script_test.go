// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script_test

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
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
)

type harness struct {
	t     *testing.T
	se    *script.ScriptEngine
	logDB *logdb.LogDB
	nonce uint64
}

func newHarness(t *testing.T) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	se := script.NewScriptEngine(state.New(db), logDB)
	t.Cleanup(func() {
		se.Close()
		logDB.Close()
		db.Close()
	})
	return &harness{t: t, se: se, logDB: logDB}
}

func (h *harness) sign(body interface{}, keys ...*ecdsa.PrivateKey) *tx.Transaction {
	data, err := script.EncodeScriptData(body)
	require.NoError(h.t, err)
	h.nonce++
	trx := tx.New(h.nonce, data)
	for _, k := range keys {
		trx, err = trx.Sign(k)
		require.NoError(h.t, err)
	}
	return trx
}

func (h *harness) send(body interface{}, keys ...*ecdsa.PrivateKey) (*script.Receipt, error) {
	return h.se.Execute(context.Background(), h.sign(body, keys...))
}

func (h *harness) mustSend(body interface{}, keys ...*ecdsa.PrivateKey) *script.Receipt {
	r, err := h.send(body, keys...)
	require.NoError(h.t, err)
	require.False(h.t, r.Reverted)
	return r
}

func addr(key *ecdsa.PrivateKey) meter.Address {
	return meter.Address(crypto.PubkeyToAddress(key.PublicKey))
}

func TestEngineAuctionFlow(t *testing.T) {
	h := newHarness(t)

	mintKey, _ := crypto.GenerateKey()
	sellerKey, _ := crypto.GenerateKey()
	bidderKey, _ := crypto.GenerateKey()
	mintAuth, seller, bidder := addr(mintKey), addr(sellerKey), addr(bidderKey)

	receipts := make(chan *script.Receipt, 32)
	sub := h.se.SubscribeReceipts(receipts)
	defer sub.Unsubscribe()

	itemMint := meter.BytesToAddress(h.mustSend(&token.TokenBody{Opcode: token.OP_INIT_MINT, Authority: mintAuth, Salt: 1}, mintKey).Output)
	curMint := meter.BytesToAddress(h.mustSend(&token.TokenBody{Opcode: token.OP_INIT_MINT, Authority: mintAuth, Salt: 2}, mintKey).Output)

	authority, _, err := auction.DeriveAuthority(seller)
	require.NoError(t, err)
	open := func(owner, mint meter.Address) meter.Address {
		r := h.mustSend(&token.TokenBody{Opcode: token.OP_INIT_ACCOUNT, Owner: owner, Mint: mint}, mintKey)
		return meter.BytesToAddress(r.Output)
	}
	itemHolder := open(authority, itemMint)
	currencyHolder := open(authority, curMint)
	sellerReceiver := open(seller, curMint)
	funding := open(bidder, curMint)
	bidderItem := open(bidder, itemMint)

	h.mustSend(&token.TokenBody{Opcode: token.OP_MINT_TO, Authority: mintAuth, Mint: itemMint, Account: itemHolder, Amount: 1}, mintKey)
	h.mustSend(&token.TokenBody{Opcode: token.OP_MINT_TO, Authority: mintAuth, Mint: curMint, Account: funding, Amount: 500}, mintKey)

	id := meter.Blake2b([]byte("engine-auction"))
	h.mustSend(auction.NewCreateBody(id, seller, itemHolder, currencyHolder, 100), sellerKey)

	// a second create under the same id leaves the first record and its event alone
	r, err := h.send(auction.NewCreateBody(id, seller, itemHolder, currencyHolder, 1), sellerKey)
	assert.ErrorIs(t, err, auction.ErrAuctionExists)
	require.NotNil(t, r)
	assert.True(t, r.Reverted)
	assert.Empty(t, r.Events)
	rec, err := h.se.State().GetAuction(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), rec.Price)

	// too low, reverted but still recorded as executed
	low := h.sign(auction.NewBidBody(id, bidder, funding, meter.Address{}, 50), bidderKey)
	r, err = h.se.Execute(context.Background(), low)
	assert.ErrorIs(t, err, auction.ErrBidTooLow)
	require.NotNil(t, r)
	assert.True(t, r.Reverted)
	assert.Equal(t, bidder, r.Origin)
	assert.Empty(t, r.Events)

	_, err = h.se.Execute(context.Background(), low)
	assert.ErrorIs(t, err, script.ErrKnownTx)

	h.mustSend(auction.NewBidBody(id, bidder, funding, meter.Address{}, 150), bidderKey)
	closeReceipt := h.mustSend(auction.NewCloseBody(id, seller, bidderItem, sellerReceiver), sellerKey)
	assert.Len(t, closeReceipt.Transfers, 2)

	rec, err = h.se.State().GetAuction(id)
	require.NoError(t, err)
	assert.False(t, rec.Ongoing)
	assert.Equal(t, bidder, rec.Bidder)

	ledger := h.se.Ledger()
	for acc, want := range map[meter.Address]uint64{
		itemHolder:     0,
		bidderItem:     1,
		currencyHolder: 0,
		sellerReceiver: 150,
		funding:        350,
	} {
		bal, err := ledger.Balance(acc)
		require.NoError(t, err)
		assert.Equal(t, want, bal)
	}

	// events of the auction, the reverted bid left none
	auctionAddr := meter.AuctionProgramAddr
	events, err := h.logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &auctionAddr, Topics: [5]*meter.Bytes32{nil, &id}}},
	})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, auction.AuctionCreatedEvent, *events[0].Topics[0])
	assert.Equal(t, auction.AuctionBidEvent, *events[1].Topics[0])
	assert.Equal(t, auction.AuctionClosedEvent, *events[2].Topics[0])
	assert.Equal(t, seller, events[2].TxOrigin)

	transfers, err := h.logDB.FilterTransfers(context.Background(), &logdb.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &sellerReceiver}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, uint64(150), transfers[0].Amount)
	assert.Equal(t, currencyHolder, transfers[0].Sender)

	// every executed transaction, reverted or not, was published in order
	var seqs []uint64
	for len(receipts) > 0 {
		seqs = append(seqs, (<-receipts).Seq)
	}
	require.Len(t, seqs, 14)
	for i := 1; i < len(seqs); i++ {
		assert.Equal(t, seqs[i-1]+1, seqs[i])
	}
}

func TestEngineRejects(t *testing.T) {
	h := newHarness(t)
	key, _ := crypto.GenerateKey()

	// unsigned
	data, err := script.EncodeScriptData(&token.TokenBody{Opcode: token.OP_INIT_MINT})
	require.NoError(t, err)
	_, err = h.se.Execute(context.Background(), tx.New(1, data))
	assert.ErrorIs(t, err, tx.ErrNoSignature)

	// not a script
	trx, err := tx.New(2, []byte("hello")).Sign(key)
	require.NoError(t, err)
	_, err = h.se.Execute(context.Background(), trx)
	assert.Error(t, err)

	// unknown module
	raw, err := script.ScriptEncodeBytes(new(script.Builder).SetModID(77).SetPayload([]byte{0xc0}).Build())
	require.NoError(t, err)
	trx, err = tx.New(3, raw).Sign(key)
	require.NoError(t, err)
	_, err = h.se.Execute(context.Background(), trx)
	assert.ErrorIs(t, err, script.ErrUnknownModule)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.se.Execute(ctx, h.sign(&token.TokenBody{Opcode: token.OP_INIT_MINT, Authority: addr(key)}, key))
	assert.ErrorIs(t, err, context.Canceled)

	// rejected transactions are not marked and can be sent again
	known, err := h.se.State().HasTx(trx.ID())
	require.NoError(t, err)
	assert.False(t, known)
}

func TestModules(t *testing.T) {
	h := newHarness(t)
	names := map[uint32]string{}
	for _, m := range h.se.Modules() {
		names[m.ID()] = m.Name()
	}
	assert.Equal(t, map[uint32]string{
		script.TOKEN_MODULE_ID:   script.TOKEN_MODULE_NAME,
		script.AUCTION_MODULE_ID: script.AUCTION_MODULE_NAME,
	}, names)
}

func TestScriptDataCodec(t *testing.T) {
	body := auction.NewBidBody(meter.Blake2b([]byte("x")), meter.BytesToAddress([]byte("b")), meter.BytesToAddress([]byte("f")), meter.Address{}, 9)
	data, err := script.EncodeScriptData(body)
	require.NoError(t, err)
	assert.Equal(t, script.ScriptPrefix[:], data[:4])
	assert.Equal(t, script.ScriptPattern[:], data[4:8])

	sd, err := script.ScriptDecodeFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, script.AUCTION_MODULE_ID, sd.Header.GetModID())
	decoded, err := auction.AuctionDecodeFromBytes(sd.Payload)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)

	_, err = script.ScriptDecodeFromBytes(data[:6])
	assert.Error(t, err)
	_, err = script.EncodeScriptData("nope")
	assert.Error(t, err)
}
