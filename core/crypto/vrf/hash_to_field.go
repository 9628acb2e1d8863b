// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vrf

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
)

// PedersenHash chains the Starknet Pedersen hash over the bytes of a message:
//
//	h_0 = pedersen(m_0, m_1)
//	h_i = pedersen(h_{i-1}, m_{i+1})
//
// Each byte enters the hash as the field element with the same small value.
// The result is the Montgomery form of the final accumulator (R = 2^256),
// read as a little-endian integer. It is in [0, p) but is not the canonical
// value of the accumulator.
type PedersenHash struct{}

// NewPedersenHash returns the Pedersen hash-to-field.
func NewPedersenHash() *PedersenHash {
	return &PedersenHash{}
}

// Hash implements HashToField. Messages shorter than two bytes are rejected.
func (PedersenHash) Hash(msg []byte) (*big.Int, error) {
	if len(msg) < 2 {
		return nil, fmt.Errorf("%w: pedersen needs at least 2 bytes, got %d", ErrShortMessage, len(msg))
	}
	var a, b fp.Element
	a.SetUint64(uint64(msg[0]))
	b.SetUint64(uint64(msg[1]))
	h := pedersenhash.Pedersen(&a, &b)
	for _, m := range msg[2:] {
		b.SetUint64(uint64(m))
		h = pedersenhash.Pedersen(&h, &b)
	}
	return montgomeryInt(&h), nil
}

// montgomeryInt returns the limbs of e, least significant first, as an integer.
func montgomeryInt(e *fp.Element) *big.Int {
	var buf [fp.Bytes]byte
	for i, limb := range e {
		for j := 0; j < 8; j++ {
			buf[len(buf)-1-(8*i+j)] = byte(limb >> (8 * j))
		}
	}
	return new(big.Int).SetBytes(buf[:])
}
