// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"
	"log/slog"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

// State is the record store of the script modules. Every value is rlp encoded and
// kept under a prefixed key. Reads go through an lru cache of encoded values,
// which is refreshed only after the underlying write succeeds.
type State struct {
	db     kv.Store
	cache  *recordCache
	logger *slog.Logger
}

func New(db kv.Store) *State {
	return &State{
		db:     db,
		cache:  newRecordCache(),
		logger: slog.Default().With("pkg", "state"),
	}
}

func (s *State) DB() kv.Store { return s.db }

func (s *State) getRaw(k []byte) ([]byte, error) {
	if raw, ok := s.cache.Get(k); ok {
		return raw, nil
	}
	raw, err := s.db.Get(k)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read state")
	}
	s.cache.Add(k, raw)
	return raw, nil
}

func (s *State) has(k []byte) (bool, error) {
	if _, ok := s.cache.Get(k); ok {
		return true, nil
	}
	has, err := s.db.Has(k)
	return has, errors.Wrap(err, "read state")
}

func (s *State) decode(k []byte, val interface{}) error {
	raw, err := s.getRaw(k)
	if err != nil {
		return err
	}
	if err := rlp.DecodeBytes(raw, val); err != nil {
		s.logger.Error("corrupted record", "key", string(k[:prefixLen(k)]), "err", err)
		return errors.Wrap(err, "decode state")
	}
	return nil
}

// NewStage starts a set of writes which are committed atomically.
func (s *State) NewStage() *Stage {
	return &Stage{state: s, batch: s.db.NewBatch()}
}

// NextSeq increases and returns the execution sequence number.
func (s *State) NextSeq() (uint64, error) {
	var seq uint64
	raw, err := s.getRaw(meter.SeqKey)
	if err == nil {
		seq = binary.BigEndian.Uint64(raw)
	} else if err != ErrNotFound {
		return 0, err
	}
	seq++
	stg := s.NewStage()
	stg.put(meter.SeqKey, binary.BigEndian.AppendUint64(nil, seq))
	return seq, stg.Commit()
}

func key(prefix []byte, id []byte) []byte {
	k := make([]byte, 0, len(prefix)+1+len(id))
	k = append(k, prefix...)
	k = append(k, ':')
	return append(k, id...)
}

func prefixLen(k []byte) int {
	for i, b := range k {
		if b == ':' {
			return i
		}
	}
	return len(k)
}
