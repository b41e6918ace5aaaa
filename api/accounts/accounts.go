// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/token"
	"github.com/pkg/errors"
)

type Accounts struct {
	ledger *token.Ledger
}

func New(ledger *token.Ledger) *Accounts {
	return &Accounts{
		ledger,
	}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := a.ledger.Account(addr)
	if err != nil {
		if err == token.ErrAccountNotFound {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertAccount(addr, acc))
}

func (a *Accounts) handleGetMint(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	m, err := a.ledger.Mint(addr)
	if err != nil {
		if err == token.ErrMintNotFound {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, convertMint(addr, m))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/mints/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetMint))
	sub.Path("/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
