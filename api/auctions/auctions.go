// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

type Auctions struct {
	state *state.State
}

func New(state *state.State) *Auctions {
	return &Auctions{
		state,
	}
}

func (a *Auctions) handleGetAuction(w http.ResponseWriter, req *http.Request) error {
	id, err := meter.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	record, err := a.state.GetAuction(id)
	if err != nil {
		if err == state.ErrNotFound {
			return utils.NotFound(errors.WithMessage(err, "auction"))
		}
		return err
	}
	return utils.WriteJSON(w, convertAuction(record))
}

func (a *Auctions) handleGetAuctions(w http.ResponseWriter, req *http.Request) error {
	list, err := a.state.Auctions()
	if err != nil {
		return err
	}
	onlyOngoing := req.URL.Query().Get("ongoing") == "true"
	result := make([]*Auction, 0, len(list))
	for _, record := range list {
		if onlyOngoing && !record.Ongoing {
			continue
		}
		result = append(result, convertAuction(record))
	}
	return utils.WriteJSON(w, result)
}

func (a *Auctions) handleGetAuthority(w http.ResponseWriter, req *http.Request) error {
	seller, err := meter.ParseAddress(mux.Vars(req)["seller"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "seller"))
	}
	authority, bump, err := auction.DeriveAuthority(seller)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Authority{seller, authority, bump})
}

func (a *Auctions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAuctions))
	sub.Path("/authority/{seller}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAuthority))
	sub.Path("/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAuction))
}
