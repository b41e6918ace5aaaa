// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/pkg/errors"
)

type TopicSet struct {
	Topic0 *meter.Bytes32 `json:"topic0"`
	Topic1 *meter.Bytes32 `json:"topic1"`
	Topic2 *meter.Bytes32 `json:"topic2"`
	Topic3 *meter.Bytes32 `json:"topic3"`
	Topic4 *meter.Bytes32 `json:"topic4"`
}

// FilteredEvent is a logged event. Auction events also carry their decoded data.
type FilteredEvent struct {
	Address meter.Address        `json:"address"`
	Topics  []*meter.Bytes32     `json:"topics"`
	Data    string               `json:"data"`
	Name    string               `json:"name,omitempty"`
	Decoded interface{}          `json:"decoded,omitempty"`
	Meta    transactions.LogMeta `json:"meta"`
}

func convertEvent(event *logdb.Event) *FilteredEvent {
	fe := FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: transactions.LogMeta{
			TxID:     event.TxID,
			TxOrigin: event.TxOrigin,
			Seq:      event.Seq,
			TxTime:   event.TxTime,
		},
	}
	fe.Topics = make([]*meter.Bytes32, 0)
	for _, topic := range event.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, topic)
		}
	}
	if event.Address == meter.AuctionProgramAddr && event.Topics[0] != nil {
		// undecodable data is still returned raw
		if name, decoded, ok, err := auction.DecodeEvent(*event.Topics[0], event.Data); ok && err == nil {
			fe.Name = name
			fe.Decoded = decoded
		}
	}
	return &fe
}

// EventCriteria matches events by emitter and topics. Event names an auction
// event and stands in for topic0.
type EventCriteria struct {
	Address *meter.Address `json:"address"`
	Event   string         `json:"event"`
	TopicSet
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *logdb.Range     `json:"range"`
	Options     *logdb.Options   `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	f := &logdb.EventFilter{
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	if len(filter.CriteriaSet) == 0 {
		return f, nil
	}
	criterias := make([]*logdb.EventCriteria, len(filter.CriteriaSet))
	for i, criteria := range filter.CriteriaSet {
		topic0 := criteria.Topic0
		if criteria.Event != "" {
			topic, ok := auction.EventTopic(criteria.Event)
			if !ok {
				return nil, errors.Errorf("criteriaSet[%d]: unknown event %q", i, criteria.Event)
			}
			if topic0 != nil && *topic0 != topic {
				return nil, errors.Errorf("criteriaSet[%d]: event %q conflicts with topic0", i, criteria.Event)
			}
			topic0 = &topic
		}
		criterias[i] = &logdb.EventCriteria{
			Address: criteria.Address,
			Topics: [5]*meter.Bytes32{
				topic0,
				criteria.Topic1,
				criteria.Topic2,
				criteria.Topic3,
				criteria.Topic4,
			},
		}
	}
	f.CriteriaSet = criterias
	return f, nil
}
