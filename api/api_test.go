// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fortytw2/leaktest"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auctions"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/api/transfers"
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

type server struct {
	t     *testing.T
	ts    *httptest.Server
	nonce uint64
}

func (s *server) do(method, path string, body interface{}) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.ts.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, data
}

func (s *server) get(path string, v interface{}) int {
	status, data := s.do("GET", path, nil)
	if status == http.StatusOK && v != nil {
		require.NoError(s.t, json.Unmarshal(data, v))
	}
	return status
}

func (s *server) send(body interface{}, key *ecdsa.PrivateKey) (int, *transactions.Receipt) {
	data, err := script.EncodeScriptData(body)
	require.NoError(s.t, err)
	s.nonce++
	trx, err := tx.New(s.nonce, data).Sign(key)
	require.NoError(s.t, err)
	raw, err := trx.Encode()
	require.NoError(s.t, err)

	status, res := s.do("POST", "/transactions", &transactions.RawTx{Raw: hexutil.Encode(raw)})
	var receipt transactions.Receipt
	if json.Unmarshal(res, &receipt) != nil {
		return status, nil
	}
	return status, &receipt
}

func (s *server) mustSend(body interface{}, key *ecdsa.PrivateKey) *transactions.Receipt {
	status, receipt := s.send(body, key)
	require.Equal(s.t, http.StatusOK, status)
	require.NotNil(s.t, receipt)
	require.False(s.t, receipt.Reverted)
	return receipt
}

func output(r *transactions.Receipt) meter.Address {
	return meter.BytesToAddress(hexutil.MustDecode(r.Output))
}

func TestAPI(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	defer logDB.Close()
	engine := script.NewScriptEngine(state.New(db), logDB)
	defer engine.Close()

	handler, closeSubs := api.New(engine, "*")
	defer closeSubs()
	ts := httptest.NewServer(handler)
	defer ts.Close()
	s := &server{t: t, ts: ts}

	mintKey, _ := crypto.GenerateKey()
	sellerKey, _ := crypto.GenerateKey()
	bidderKey, _ := crypto.GenerateKey()
	mintAuth := meter.Address(crypto.PubkeyToAddress(mintKey.PublicKey))
	seller := meter.Address(crypto.PubkeyToAddress(sellerKey.PublicKey))
	bidder := meter.Address(crypto.PubkeyToAddress(bidderKey.PublicKey))

	var authority auctions.Authority
	require.Equal(t, http.StatusOK, s.get("/auctions/authority/"+seller.String(), &authority))
	derived, bump, err := auction.DeriveAuthority(seller)
	require.NoError(t, err)
	assert.Equal(t, derived, authority.Authority)
	assert.Equal(t, bump, authority.Bump)

	itemMint := output(s.mustSend(&token.TokenBody{Opcode: token.OP_INIT_MINT, Authority: mintAuth, Salt: 1}, mintKey))
	curMint := output(s.mustSend(&token.TokenBody{Opcode: token.OP_INIT_MINT, Authority: mintAuth, Decimals: 6, Salt: 2}, mintKey))
	open := func(owner, mint meter.Address) meter.Address {
		return output(s.mustSend(&token.TokenBody{Opcode: token.OP_INIT_ACCOUNT, Owner: owner, Mint: mint}, mintKey))
	}
	itemHolder := open(derived, itemMint)
	currencyHolder := open(derived, curMint)
	funding := open(bidder, curMint)
	s.mustSend(&token.TokenBody{Opcode: token.OP_MINT_TO, Authority: mintAuth, Mint: itemMint, Account: itemHolder, Amount: 1}, mintKey)
	s.mustSend(&token.TokenBody{Opcode: token.OP_MINT_TO, Authority: mintAuth, Mint: curMint, Account: funding, Amount: 1000}, mintKey)

	var mint accounts.Mint
	require.Equal(t, http.StatusOK, s.get("/accounts/mints/"+curMint.String(), &mint))
	assert.Equal(t, uint8(6), mint.Decimals)
	assert.Equal(t, uint64(1000), uint64(*mint.Supply))

	id := meter.Blake2b([]byte("api-auction"))
	var rec auctions.Auction
	assert.Equal(t, http.StatusNotFound, s.get("/auctions/"+id.String(), nil))
	assert.Equal(t, http.StatusBadRequest, s.get("/auctions/0x1234", nil))

	// a holder not owned by the derived authority
	status, receipt := s.send(auction.NewCreateBody(id, seller, funding, currencyHolder, 100), sellerKey)
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Reverted)

	s.mustSend(auction.NewCreateBody(id, seller, itemHolder, currencyHolder, 100), sellerKey)
	require.Equal(t, http.StatusOK, s.get("/auctions/"+id.String(), &rec))
	assert.True(t, rec.Ongoing)
	assert.Equal(t, uint64(100), rec.Price)

	status, _ = s.send(auction.NewCreateBody(id, seller, itemHolder, currencyHolder, 100), sellerKey)
	assert.Equal(t, http.StatusConflict, status)

	// subscribe to bids on this auction
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/event?t0=" + auction.AuctionBidEvent.String() + "&t1=" + id.String()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	status, receipt = s.send(auction.NewBidBody(id, bidder, funding, meter.Address{}, 50), bidderKey)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, receipt)
	assert.Contains(t, receipt.Error, auction.ErrBidTooLow.Error())

	bid := s.mustSend(auction.NewBidBody(id, bidder, funding, meter.Address{}, 150), bidderKey)
	require.Len(t, bid.Transfers, 1)
	assert.Equal(t, uint64(150), uint64(*bid.Transfers[0].Amount))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg subscriptions.EventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, meter.AuctionProgramAddr, msg.Address)
	assert.Equal(t, []meter.Bytes32{auction.AuctionBidEvent, id}, msg.Topics)
	assert.Equal(t, bid.TxID, msg.Meta.TxID)
	assert.Equal(t, bidder, msg.Meta.TxOrigin)

	var acc accounts.Account
	require.Equal(t, http.StatusOK, s.get("/accounts/"+currencyHolder.String(), &acc))
	assert.Equal(t, uint64(150), uint64(*acc.Amount))
	assert.Equal(t, derived, acc.Owner)
	assert.Equal(t, http.StatusNotFound, s.get("/accounts/"+meter.BytesToAddress([]byte("x")).String(), nil))

	var list []*auctions.Auction
	require.Equal(t, http.StatusOK, s.get("/auctions?ongoing=true", &list))
	require.Len(t, list, 1)
	assert.Equal(t, bidder, list[0].Bidder)

	// logs
	programAddr := meter.AuctionProgramAddr
	status, data := s.do("POST", "/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Address: &programAddr, TopicSet: events.TopicSet{Topic1: &id}}},
	})
	require.Equal(t, http.StatusOK, status)
	var fes []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(data, &fes))
	require.Len(t, fes, 2)
	assert.Equal(t, "AuctionCreated", fes[0].Name)
	assert.Equal(t, "AuctionBid", fes[1].Name)
	bidData, ok := fes[1].Decoded.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(150), bidData["price"])

	status, data = s.do("POST", "/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Event: "AuctionBid", TopicSet: events.TopicSet{Topic1: &id}}},
	})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &fes))
	require.Len(t, fes, 1)
	assert.Equal(t, "AuctionBid", fes[0].Name)

	status, _ = s.do("POST", "/logs/event", &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{{Event: "AuctionSold"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = s.do("POST", "/logs/transfer", &transfers.TransferFilter{
		CriteriaSet: []*logdb.TransferCriteria{{Recipient: &currencyHolder}},
	})
	require.Equal(t, http.StatusOK, status)
	var fts []*transfers.FilteredTransfer
	require.NoError(t, json.Unmarshal(data, &fts))
	require.Len(t, fts, 1)
	assert.Equal(t, funding, fts[0].Sender)

	status, _ = s.do("POST", "/transactions", map[string]string{"raw": "0xzz"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = s.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "auction_bids_total")
	assert.Contains(t, string(data), "script_tx_total")
}
