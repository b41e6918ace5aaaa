// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"
	"errors"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

const MaxSignatures = 8

var (
	ErrNoSignature       = errors.New("transaction is not signed")
	ErrTooManySignatures = errors.New("too many signatures")
	ErrDuplicateSigner   = errors.New("duplicate signer")
)

// Transaction is an envelope of script data signed by one or more keys.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Value
		id          atomic.Value
		signers     atomic.Value
	}
}

type body struct {
	Nonce      uint64
	Data       []byte
	Signatures [][]byte
}

func New(nonce uint64, data []byte) *Transaction {
	return &Transaction{body: body{Nonce: nonce, Data: data}}
}

func (t *Transaction) Nonce() uint64 { return t.body.Nonce }
func (t *Transaction) Data() []byte  { return append([]byte(nil), t.body.Data...) }

func (t *Transaction) Signatures() [][]byte {
	sigs := make([][]byte, len(t.body.Signatures))
	for i, sig := range t.body.Signatures {
		sigs[i] = append([]byte(nil), sig...)
	}
	return sigs
}

// SigningHash returns the hash every signer signs.
func (t *Transaction) SigningHash() (hash meter.Bytes32) {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.signingHash.Store(hash) }()

	hash, _ = meter.Blake2bRLP([]interface{}{
		t.body.Nonce,
		t.body.Data,
	})
	return
}

// ID returns the transaction id, which covers the signatures too.
func (t *Transaction) ID() (id meter.Bytes32) {
	if cached := t.cache.id.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() { t.cache.id.Store(id) }()

	id, _ = meter.Blake2bRLP([]interface{}{
		t.body.Nonce,
		t.body.Data,
		t.body.Signatures,
	})
	return
}

// Signers recovers the address of every signature, in signing order.
func (t *Transaction) Signers() (signers []meter.Address, err error) {
	if cached := t.cache.signers.Load(); cached != nil {
		return cached.([]meter.Address), nil
	}
	if len(t.body.Signatures) == 0 {
		return nil, ErrNoSignature
	}
	if len(t.body.Signatures) > MaxSignatures {
		return nil, ErrTooManySignatures
	}
	defer func() {
		if err == nil {
			t.cache.signers.Store(signers)
		}
	}()

	hash := t.SigningHash()
	seen := make(map[meter.Address]bool)
	for _, sig := range t.body.Signatures {
		pub, err := crypto.SigToPub(hash.Bytes(), sig)
		if err != nil {
			return nil, err
		}
		signer := meter.Address(crypto.PubkeyToAddress(*pub))
		if seen[signer] {
			return nil, ErrDuplicateSigner
		}
		seen[signer] = true
		signers = append(signers, signer)
	}
	return signers, nil
}

// Origin is the first signer.
func (t *Transaction) Origin() (meter.Address, error) {
	signers, err := t.Signers()
	if err != nil {
		return meter.Address{}, err
	}
	return signers[0], nil
}

// WithSignature returns a copy with sig appended.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Signatures = append(t.Signatures(), append([]byte(nil), sig...))
	return &newTx
}

// Sign returns a copy signed additionally by key.
func (t *Transaction) Sign(key *ecdsa.PrivateKey) (*Transaction, error) {
	sig, err := crypto.Sign(t.SigningHash().Bytes(), key)
	if err != nil {
		return nil, err
	}
	return t.WithSignature(sig), nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	t.body = body
	return nil
}

func Decode(raw []byte) (*Transaction, error) {
	var t Transaction
	if err := rlp.DecodeBytes(raw, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Transaction) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(t)
}
