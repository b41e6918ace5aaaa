// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	txCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "script_tx_total",
		Help: "Number of script transactions by module and result",
	}, []string{"module", "result"})
	txDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "script_tx_duration_seconds",
		Help:    "Execution time of script transactions",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"module"})
)

func init() {
	prometheus.MustRegister(txCounter, txDuration)
}
