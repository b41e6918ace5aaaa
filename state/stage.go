// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

// Stage collects writes on the state, applied in one batch by Commit.
type Stage struct {
	err   error
	state *State
	batch kv.Batch
	keys  [][]byte
	vals  [][]byte
}

func (stg *Stage) put(k, v []byte) {
	if stg.err != nil {
		return
	}
	if err := stg.batch.Put(k, v); err != nil {
		stg.err = err
		return
	}
	stg.keys = append(stg.keys, k)
	stg.vals = append(stg.vals, v)
}

func (stg *Stage) encode(k []byte, val interface{}) {
	if stg.err != nil {
		return
	}
	raw, err := rlp.EncodeToBytes(val)
	if err != nil {
		stg.err = errors.Wrap(err, "encode state")
		return
	}
	stg.put(k, raw)
}

func (stg *Stage) PutAuction(a *meter.Auction) *Stage {
	stg.encode(key(meter.AuctionKeyPrefix, a.ID.Bytes()), a)
	return stg
}

func (stg *Stage) PutMint(addr meter.Address, m *meter.Mint) *Stage {
	stg.encode(key(meter.MintKeyPrefix, addr.Bytes()), m)
	return stg
}

func (stg *Stage) PutTokenAccount(addr meter.Address, acc *meter.TokenAccount) *Stage {
	stg.encode(key(meter.AccountKeyPrefix, addr.Bytes()), acc)
	return stg
}

func (stg *Stage) MarkTx(id meter.Bytes32, seq uint64) *Stage {
	stg.encode(key(meter.TxKeyPrefix, id.Bytes()), seq)
	return stg
}

// Len returns the number of staged writes.
func (stg *Stage) Len() int { return len(stg.keys) }

// Commit writes all staged values. Nothing is written if any staging call failed.
func (stg *Stage) Commit() error {
	if stg.err != nil {
		return stg.err
	}
	if len(stg.keys) == 0 {
		return nil
	}
	if err := stg.batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	for i, k := range stg.keys {
		stg.state.cache.Add(k, stg.vals[i])
	}
	return nil
}
