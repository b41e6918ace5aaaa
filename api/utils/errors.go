// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"

	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
)

// StatusOf maps an execution or lookup error to a http status. Anything
// unrecognized is treated as bad input.
func StatusOf(err error) int {
	switch auction.ErrorCode(err) {
	case auction.ErrAuthorizationMismatch.Code:
		return http.StatusForbidden
	case auction.ErrBidTooLow.Code, auction.ErrNotOngoing.Code, auction.ErrAuctionExists.Code:
		return http.StatusConflict
	case auction.ErrTransferFailure.Code:
		return http.StatusUnprocessableEntity
	case auction.ErrAuctionNotFound.Code:
		return http.StatusNotFound
	case auction.ErrUnknownOpcode.Code:
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, script.ErrKnownTx),
		errors.Is(err, state.ErrExists),
		errors.Is(err, token.ErrAccountExists),
		errors.Is(err, token.ErrMintExists):
		return http.StatusConflict
	case errors.Is(err, state.ErrNotFound),
		errors.Is(err, token.ErrAccountNotFound),
		errors.Is(err, token.ErrMintNotFound):
		return http.StatusNotFound
	case errors.Is(err, setypes.ErrNotSigner),
		errors.Is(err, token.ErrOwnerMismatch):
		return http.StatusForbidden
	case errors.Is(err, token.ErrInsufficientFunds),
		errors.Is(err, token.ErrAccountFrozen),
		errors.Is(err, token.ErrMintMismatch),
		errors.Is(err, token.ErrOverflow):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
