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
	"errors"
	"fmt"
	"math/big"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
)

// Proof is an ECVRF proof (Gamma, c, s).
type Proof struct {
	GammaX, GammaY *big.Int
	C              *big.Int // challenge, mod q
	S              *big.Int // response, mod q
}

// Len returns the length of an encoded proof for curve.
func Len(curve *starkcurve.CurveParams) int {
	return curve.PointLen() + 2*curve.ScalarLen()
}

// check reports whether the components of pi are present and in range.
func (pi *Proof) check(curve *starkcurve.CurveParams) error {
	if pi == nil || pi.GammaX == nil || pi.GammaY == nil || pi.C == nil || pi.S == nil {
		return errors.New("incomplete proof")
	}
	if !curve.IsOnCurve(pi.GammaX, pi.GammaY) {
		return errors.New("gamma is not on the curve")
	}
	for _, v := range []*big.Int{pi.C, pi.S} {
		if v.Sign() < 0 || v.Cmp(curve.N) >= 0 {
			return errors.New("scalar out of range")
		}
	}
	return nil
}

// Marshal returns point_to_string(Gamma) || int_to_string(c) || int_to_string(s).
// Gamma must be on the curve and c and s must be reduced modulo the group order.
func (pi *Proof) Marshal(curve *starkcurve.CurveParams) ([]byte, error) {
	if err := pi.check(curve); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	b := make([]byte, 0, Len(curve))
	b = append(b, curve.MarshalCompressed(pi.GammaX, pi.GammaY)...)
	b = append(b, curve.MarshalScalar(pi.C)...)
	b = append(b, curve.MarshalScalar(pi.S)...)
	return b, nil
}

// ParseProof decodes a proof encoded by Proof.Marshal.
func ParseProof(curve *starkcurve.CurveParams, b []byte) (*Proof, error) {
	ptLen, qLen := curve.PointLen(), curve.ScalarLen()
	if got, want := len(b), ptLen+2*qLen; got != want {
		return nil, fmt.Errorf("%w: len(pi)=%v, want %v", ErrInvalidEncoding, got, want)
	}

	gx, gy, err := curve.UnmarshalCompressed(b[:ptLen])
	if err != nil {
		return nil, fmt.Errorf("%w: gamma: %w", ErrInvalidEncoding, err)
	}
	c, err := curve.UnmarshalScalar(b[ptLen : ptLen+qLen])
	if err != nil {
		return nil, fmt.Errorf("%w: c: %w", ErrInvalidEncoding, err)
	}
	s, err := curve.UnmarshalScalar(b[ptLen+qLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: s: %w", ErrInvalidEncoding, err)
	}
	return &Proof{GammaX: gx, GammaY: gy, C: c, S: s}, nil
}
