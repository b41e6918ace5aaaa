// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

var (
	AuctionCreatedEvent = meter.Blake2b([]byte("AuctionCreated"))
	AuctionBidEvent     = meter.Blake2b([]byte("AuctionBid"))
	AuctionClosedEvent  = meter.Blake2b([]byte("AuctionClosed"))
)

var eventNames = map[meter.Bytes32]string{
	AuctionCreatedEvent: "AuctionCreated",
	AuctionBidEvent:     "AuctionBid",
	AuctionClosedEvent:  "AuctionClosed",
}

type CreatedEventData struct {
	Seller     meter.Address `json:"seller"`
	StartPrice uint64        `json:"startPrice"`
}

type BidEventData struct {
	Bidder         meter.Address `json:"bidder"`
	Funding        meter.Address `json:"funding"`
	Price          uint64        `json:"price"`
	RefundReceiver meter.Address `json:"refundReceiver"` // zero when nobody was refunded
	Refunded       uint64        `json:"refunded"`
}

type ClosedEventData struct {
	Winner          meter.Address `json:"winner"`
	Price           uint64        `json:"price"`
	ItemAmount      uint64        `json:"itemAmount"`
	CurrencySkipped bool          `json:"currencySkipped"`
}

// EventTopic returns the topic of the named auction event.
func EventTopic(name string) (meter.Bytes32, bool) {
	for topic, n := range eventNames {
		if n == name {
			return topic, true
		}
	}
	return meter.Bytes32{}, false
}

// DecodeEvent decodes event data by its first topic. ok is false for topics
// auctions do not emit.
func DecodeEvent(topic meter.Bytes32, data []byte) (name string, decoded interface{}, ok bool, err error) {
	switch topic {
	case AuctionCreatedEvent:
		decoded = new(CreatedEventData)
	case AuctionBidEvent:
		decoded = new(BidEventData)
	case AuctionClosedEvent:
		decoded = new(ClosedEventData)
	default:
		return "", nil, false, nil
	}
	if err = rlp.DecodeBytes(data, decoded); err != nil {
		return "", nil, true, err
	}
	return eventNames[topic], decoded, true, nil
}

func emit(env *setypes.ScriptEnv, topic meter.Bytes32, id meter.Bytes32, data interface{}) error {
	raw, err := rlp.EncodeToBytes(data)
	if err != nil {
		return err
	}
	env.AddEvent(meter.AuctionProgramAddr, []meter.Bytes32{topic, id}, raw)
	return nil
}
