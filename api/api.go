// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auctions"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/script"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New return api router
func New(engine *script.ScriptEngine, allowedOrigins string) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(allowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	auctions.New(engine.State()).
		Mount(router, "/auctions")
	accounts.New(engine.Ledger()).
		Mount(router, "/accounts")
	transactions.New(engine).
		Mount(router, "/transactions")
	if logDB := engine.LogDB(); logDB != nil {
		events.New(logDB).
			Mount(router, "/logs/event")
		transfers.New(logDB).
			Mount(router, "/logs/transfer")
	}
	subs := subscriptions.New(engine, origins)
	subs.Mount(router, "/subscriptions")
	router.Path("/metrics").Methods("GET").Handler(promhttp.Handler())

	return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedHeaders([]string{"content-type"}))(router).ServeHTTP,
		subs.Close // subscriptions handles hijacked conns, which need to be closed
}
