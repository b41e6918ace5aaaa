// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	createdCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_created_total",
		Help: "Number of auctions created",
	})
	bidCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_bids_total",
		Help: "Number of bids by result",
	}, []string{"result"})
	closedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_closed_total",
		Help: "Number of auctions settled",
	})
	skippedReleaseCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_currency_release_skipped_total",
		Help: "Number of settlements whose currency holder could not cover the price",
	})
)

func init() {
	prometheus.MustRegister(createdCounter, bidCounter, closedCounter, skippedReleaseCounter)
}

func bidResult(err error) string {
	switch ErrorCode(err) {
	case 0:
		if err == nil {
			return "accepted"
		}
		return "error"
	case ErrBidTooLow.Code:
		return "too_low"
	case ErrNotOngoing.Code:
		return "not_ongoing"
	case ErrAuthorizationMismatch.Code:
		return "unauthorized"
	case ErrTransferFailure.Code:
		return "transfer_failed"
	default:
		return "error"
	}
}
