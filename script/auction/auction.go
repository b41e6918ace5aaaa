// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/token"
)

// Auction is the script module settling single-item auctions.
type Auction struct {
	logger *slog.Logger
}

func NewAuction() *Auction {
	return &Auction{
		logger: slog.Default().With("pkg", "auction"),
	}
}

// Handle decodes an auction body and runs its operation.
func (a *Auction) Handle(env *setypes.ScriptEnv, payload []byte) (*setypes.ScriptEngineOutput, error) {
	ab, err := AuctionDecodeFromBytes(payload)
	if err != nil {
		a.logger.Error("Decode script message failed", "error", err)
		return nil, err
	}

	a.logger.Debug("received auction", "body", ab.ToString())
	switch ab.Opcode {
	case OP_CREATE:
		err = a.CreateAuction(env, ab)
	case OP_BID:
		err = a.Bid(env, ab)
		bidCounter.WithLabelValues(bidResult(err)).Inc()
	case OP_CLOSE:
		err = a.CloseAuction(env, ab)
	default:
		a.logger.Error("unknown Opcode", "Opcode", ab.Opcode)
		err = ErrUnknownOpcode
	}
	a.logger.Debug("Leaving auction handler", "op", ab.GetOpName(ab.Opcode), "err", err)
	return env.GetOutput(), err
}

// finish sets the return data of the operation: the encoded record on success,
// the error message otherwise.
func finish(env *setypes.ScriptEnv, record *meter.Auction, err error) {
	if err != nil {
		env.SetReturnData([]byte(err.Error()))
		return
	}
	ret, e := rlp.EncodeToBytes(record)
	if e == nil {
		env.SetReturnData(ret)
	}
}

func loadOngoing(st *state.State, id meter.Bytes32) (*meter.Auction, error) {
	record, err := st.GetAuction(id)
	if err == state.ErrNotFound {
		return nil, ErrAuctionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !record.Ongoing {
		return nil, ErrNotOngoing
	}
	return record, nil
}

// checkOwner loads a token account and verifies its administrative authority.
func checkOwner(ledger *token.Ledger, addr, owner meter.Address, name string) (*meter.TokenAccount, error) {
	acc, err := ledger.Account(addr)
	if err == token.ErrAccountNotFound {
		return nil, authErr("%v %v not found", name, addr)
	}
	if err != nil {
		return nil, err
	}
	if acc.Owner != owner {
		return nil, authErr("%v %v is owned by %v, expected %v", name, addr, acc.Owner, owner)
	}
	return acc, nil
}

// checkRelease fails unless the holder can pay the receiver: same mint, neither frozen.
func checkRelease(holderAddr meter.Address, holder *meter.TokenAccount, receiverAddr meter.Address, receiver *meter.TokenAccount, name string) error {
	if receiver.Mint != holder.Mint {
		return authErr("%v receiver %v holds mint %v, expected %v", name, receiverAddr, receiver.Mint, holder.Mint)
	}
	if holder.Frozen {
		return authErr("%v holder %v is frozen", name, holderAddr)
	}
	if receiver.Frozen {
		return authErr("%v receiver %v is frozen", name, receiverAddr)
	}
	return nil
}
