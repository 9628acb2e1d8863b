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

package starkcurve

import (
	"errors"
	"fmt"
	"math/big"
)

// Flags stored in the two most significant bits of the last byte of a
// compressed point.
const (
	flagNegative = 1 << 7 // y > (P-1)/2
	flagInfinity = 1 << 6
	flagMask     = flagNegative | flagInfinity
)

var (
	// ErrInvalidPoint occurs when an octet string does not decode to a point on the curve.
	ErrInvalidPoint = errors.New("starkcurve: invalid point encoding")
	// ErrInvalidScalar occurs when an octet string does not decode to a canonical scalar.
	ErrInvalidScalar = errors.New("starkcurve: invalid scalar encoding")
)

// PointLen returns the length of a compressed point: a base field element
// plus two flag bits, rounded up to whole bytes.
func (curve *CurveParams) PointLen() int {
	return (curve.P.BitLen() + 2 + 7) >> 3
}

// ScalarLen returns the length of an encoded scalar.
func (curve *CurveParams) ScalarLen() int {
	return (curve.N.BitLen() + 7) >> 3
}

// isNegative reports whether y is the larger of the two square roots y and -y.
func (curve *CurveParams) isNegative(y *big.Int) bool {
	half := new(big.Int).Rsh(curve.P, 1) // (P-1)/2
	return y.Cmp(half) > 0
}

// MarshalCompressed converts a point into compressed form: x in little-endian
// order with the sign of y and the infinity marker stored in the top two
// bits of the last byte.
func (curve *CurveParams) MarshalCompressed(x, y *big.Int) []byte {
	ret := make([]byte, curve.PointLen())
	if IsInfinity(x, y) {
		ret[len(ret)-1] |= flagInfinity
		return ret
	}
	putLittleEndian(ret, x)
	if curve.isNegative(y) {
		ret[len(ret)-1] |= flagNegative
	}
	return ret
}

// UnmarshalCompressed converts a point serialized by MarshalCompressed into
// an (x, y) pair. The point at infinity decodes to (0, 0).
func (curve *CurveParams) UnmarshalCompressed(data []byte) (x, y *big.Int, err error) {
	if got, want := len(data), curve.PointLen(); got != want {
		return nil, nil, fmt.Errorf("%w: len %d, want %d", ErrInvalidPoint, got, want)
	}
	buf := append([]byte(nil), data...)
	flags := buf[len(buf)-1] & flagMask
	buf[len(buf)-1] &^= flagMask

	x = fromLittleEndian(buf)
	switch flags {
	case flagMask:
		return nil, nil, fmt.Errorf("%w: both flags set", ErrInvalidPoint)
	case flagInfinity:
		if x.Sign() != 0 {
			return nil, nil, fmt.Errorf("%w: non-zero x at infinity", ErrInvalidPoint)
		}
		return new(big.Int), new(big.Int), nil
	}
	if x.Cmp(curve.P) >= 0 {
		return nil, nil, fmt.Errorf("%w: x out of range", ErrInvalidPoint)
	}

	y = curve.group().decompress(x)
	if y == nil {
		return nil, nil, fmt.Errorf("%w: x is not on the curve", ErrInvalidPoint)
	}
	if y.Sign() != 0 && curve.isNegative(y) != (flags == flagNegative) {
		y.Sub(curve.P, y)
	}
	return x, y, nil
}

// MarshalScalar encodes k, which must be in [0, N), as ScalarLen little-endian bytes.
func (curve *CurveParams) MarshalScalar(k *big.Int) []byte {
	ret := make([]byte, curve.ScalarLen())
	putLittleEndian(ret, k)
	return ret
}

// UnmarshalScalar decodes a scalar encoded by MarshalScalar. Values that are
// not reduced modulo N are rejected.
func (curve *CurveParams) UnmarshalScalar(data []byte) (*big.Int, error) {
	if got, want := len(data), curve.ScalarLen(); got != want {
		return nil, fmt.Errorf("%w: len %d, want %d", ErrInvalidScalar, got, want)
	}
	k := fromLittleEndian(data)
	if k.Cmp(curve.N) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidScalar)
	}
	return k, nil
}

// putLittleEndian writes v into out in little-endian order. v must fit.
func putLittleEndian(out []byte, v *big.Int) {
	be := v.Bytes()
	if len(be) > len(out) {
		panic("starkcurve: integer too large")
	}
	for i, b := range be {
		out[len(be)-1-i] = b
	}
}

func fromLittleEndian(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}
