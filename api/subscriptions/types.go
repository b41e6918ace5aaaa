// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// EventMessage is pushed for every matched event of a successful transaction.
type EventMessage struct {
	Address meter.Address        `json:"address"`
	Topics  []meter.Bytes32      `json:"topics"`
	Data    string               `json:"data"`
	Meta    transactions.LogMeta `json:"meta"`
}

func convertEvent(receipt *script.Receipt, event *tx.Event) *EventMessage {
	return &EventMessage{
		Address: event.Address,
		Topics:  event.Topics,
		Data:    hexutil.Encode(event.Data),
		Meta: transactions.LogMeta{
			TxID:     receipt.TxID,
			TxOrigin: receipt.Origin,
			Seq:      receipt.Seq,
			TxTime:   receipt.Time,
		},
	}
}

type EventFilter struct {
	Address *meter.Address
	Topic0  *meter.Bytes32
	Topic1  *meter.Bytes32
}

func parseEventFilter(query url.Values) (*EventFilter, error) {
	var filter EventFilter
	if s := query.Get("addr"); s != "" {
		addr, err := meter.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "addr")
		}
		filter.Address = &addr
	}
	for name, dst := range map[string]**meter.Bytes32{"t0": &filter.Topic0, "t1": &filter.Topic1} {
		if s := query.Get(name); s != "" {
			topic, err := meter.ParseBytes32(s)
			if err != nil {
				return nil, errors.WithMessage(err, name)
			}
			*dst = &topic
		}
	}
	return &filter, nil
}

func (ef *EventFilter) Match(event *tx.Event) bool {
	if ef.Address != nil && *ef.Address != event.Address {
		return false
	}
	matchTopic := func(topic *meter.Bytes32, index int) bool {
		if topic != nil {
			if len(event.Topics) <= index {
				return false
			}
			if *topic != event.Topics[index] {
				return false
			}
		}
		return true
	}
	return matchTopic(ef.Topic0, 0) && matchTopic(ef.Topic1, 1)
}

// messages converts the events of receipt which match the filter.
func (ef *EventFilter) messages(receipt *script.Receipt) []*EventMessage {
	if receipt.Reverted {
		return nil
	}
	var msgs []*EventMessage
	for _, event := range receipt.Events {
		if ef.Match(event) {
			msgs = append(msgs, convertEvent(receipt, event))
		}
	}
	return msgs
}
