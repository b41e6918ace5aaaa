// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"errors"
	"fmt"
)

// Error is an auction failure with a stable numeric code.
type Error struct {
	Code uint32
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrBidTooLow             = &Error{100, "your bid price is too low"}
	ErrNotOngoing            = &Error{101, "auction is not ongoing"}
	ErrAuthorizationMismatch = &Error{102, "authorization mismatch"}
	ErrTransferFailure       = &Error{103, "transfer failed"}
	ErrAuctionExists         = &Error{104, "auction already exists"}
	ErrAuctionNotFound       = &Error{105, "auction not found"}
	ErrUnknownOpcode         = &Error{106, "unknown auction opcode"}
)

// ErrorCode returns the code carried by err, or 0 if it is not an auction error.
func ErrorCode(err error) uint32 {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// AuthorizationError reports which signer or authority check failed.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrAuthorizationMismatch.Msg, e.Reason)
}

func (e *AuthorizationError) Unwrap() error { return ErrAuthorizationMismatch }

func authErr(format string, args ...interface{}) error {
	return &AuthorizationError{Reason: fmt.Sprintf(format, args...)}
}

// TransferError wraps a failure of the token ledger. Partial is set when an
// earlier transfer of the same operation had already been executed, which the
// auction can not undo.
type TransferError struct {
	Op      string
	Partial bool
	Err     error
}

func (e *TransferError) Error() string {
	if e.Partial {
		return fmt.Sprintf("%v (%v, after earlier transfer): %v", ErrTransferFailure.Msg, e.Op, e.Err)
	}
	return fmt.Sprintf("%v (%v): %v", ErrTransferFailure.Msg, e.Op, e.Err)
}

func (e *TransferError) Unwrap() []error { return []error{ErrTransferFailure, e.Err} }
