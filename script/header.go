// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

var (
	ScriptPrefix  = [4]byte{0xff, 0xff, 0xff, 0xff}
	ScriptPattern = [4]byte{0xde, 0xad, 0xbe, 0xef} //pattern: deadbeef
)

type ScriptData struct {
	Header  ScriptHeader
	Payload []byte
}

// Hash identifies the script independent of the envelope carrying it.
func (s *ScriptData) Hash() (hash meter.Bytes32) {
	hash, _ = meter.Blake2bRLP([]interface{}{
		s.Header.Version,
		s.Header.ModID,
		meter.Blake2b(s.Payload),
	})
	return
}

type ScriptHeader struct {
	Version uint32
	ModID   uint32
}

// Version returns the version
func (sh *ScriptHeader) GetVersion() uint32 { return sh.Version }
func (sh *ScriptHeader) GetModID() uint32   { return sh.ModID }
func (sh *ScriptHeader) ToString() string {
	return fmt.Sprintf("ScriptHeader:::  Version: %v, ModID: %v", sh.Version, sh.ModID)
}

// ScriptEncodeBytes returns prefix || pattern || rlp(script).
func ScriptEncodeBytes(script *ScriptData) ([]byte, error) {
	scriptBytes, err := rlp.EncodeToBytes(script)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, len(ScriptPrefix)+len(ScriptPattern)+len(scriptBytes))
	data = append(data, ScriptPrefix[:]...)
	data = append(data, ScriptPattern[:]...)
	return append(data, scriptBytes...), nil
}

// ScriptDecodeFromBytes parses script bytes produced by ScriptEncodeBytes.
func ScriptDecodeFromBytes(data []byte) (*ScriptData, error) {
	head := len(ScriptPrefix) + len(ScriptPattern)
	if len(data) < head {
		return nil, fmt.Errorf("script data too short, len = %v", len(data))
	}
	if !bytes.Equal(data[:len(ScriptPrefix)], ScriptPrefix[:]) {
		return nil, fmt.Errorf("Prefix mismatch, prefix = %v", hex.EncodeToString(data[:len(ScriptPrefix)]))
	}
	if !bytes.Equal(data[len(ScriptPrefix):head], ScriptPattern[:]) {
		return nil, fmt.Errorf("Pattern mismatch, pattern = %v", hex.EncodeToString(data[len(ScriptPrefix):head]))
	}
	script := ScriptData{}
	if err := rlp.DecodeBytes(data[head:], &script); err != nil {
		return nil, err
	}
	return &script, nil
}
