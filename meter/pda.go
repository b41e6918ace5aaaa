// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

var (
	ErrInvalidSeeds = errors.New("invalid program address seeds")
	ErrOnCurve      = errors.New("program address lies on the secp256k1 curve")
	ErrNoBump       = errors.New("unable to find a viable program address bump")

	pdaMarker = []byte("ProgramDerivedAddress")
)

// CreateProgramAddress derives an address from seeds and the program address. A
// derived address must have no private key, so any digest that decodes to a point
// on secp256k1 is rejected.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, ErrInvalidSeeds
	}
	hw := NewBlake2b()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Address{}, ErrInvalidSeeds
		}
		hw.Write(seed)
	}
	hw.Write(program.Bytes())
	hw.Write(pdaMarker)

	var digest Bytes32
	hw.Sum(digest[:0])
	if isOnCurve(digest) {
		return Address{}, ErrOnCurve
	}
	return BytesToAddress(digest[12:]), nil
}

// FindProgramAddress searches bump seeds from 255 downwards and returns the first
// derived address that is off the curve, together with its bump.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if err != ErrOnCurve {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, ErrNoBump
}

func isOnCurve(x Bytes32) bool {
	_, err := crypto.DecompressPubkey(append([]byte{0x02}, x[:]...))
	return err == nil
}
