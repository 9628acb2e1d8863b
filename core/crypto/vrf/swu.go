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

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
)

// SWUMapper maps base field elements to curve points with the simplified
// Shallue-van de Woestijne-Ulas method, in the inversion-free form of
// https://datatracker.ietf.org/doc/html/rfc9380#appendix-F.2 used by arkworks.
type SWUMapper struct {
	curve *starkcurve.CurveParams
	mapFn func(u *big.Int) (x, y *big.Int, err error)
}

// NewSWUMapper returns a mapper for curve. The curve parameters must be
// valid, and the map requires A·B != 0 and a non-square zeta.
func NewSWUMapper(curve *starkcurve.CurveParams) (*SWUMapper, error) {
	if err := curve.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCurveMapping, err)
	}
	var (
		mapFn func(*big.Int) (*big.Int, *big.Int, error)
		err   error
	)
	if curve.P.Cmp(fp.Modulus()) == 0 {
		mapFn, err = newSWU[fp.Element](starkField{}, curve)
	} else {
		mapFn, err = newSWU[*big.Int](primeField{p: curve.P}, curve)
	}
	if err != nil {
		return nil, err
	}
	return &SWUMapper{curve: curve, mapFn: mapFn}, nil
}

// Map returns the curve point for the base field element u. The sign of y
// matches the parity of u.
func (m *SWUMapper) Map(u *big.Int) (x, y *big.Int, err error) {
	x, y, err = m.mapFn(new(big.Int).Mod(u, m.curve.P))
	if err != nil {
		return nil, nil, err
	}
	if !m.curve.IsOnCurve(x, y) {
		return nil, nil, fmt.Errorf("%w: image of %v is not on the curve", ErrCurveMapping, u)
	}
	return x, y, nil
}

// newSWU checks the map constants in f and returns the map. u passed to the
// map must be reduced.
func newSWU[E any](f field[E], curve *starkcurve.CurveParams) (func(*big.Int) (*big.Int, *big.Int, error), error) {
	a, b, zeta := f.fromBig(curve.A), f.fromBig(curve.B), f.fromBig(curve.Zeta)
	if f.legendre(zeta) != -1 {
		return nil, fmt.Errorf("%w: zeta %v is a square in the base field", ErrCurveMapping, curve.Zeta)
	}
	if f.isZero(f.mul(a, b)) {
		return nil, fmt.Errorf("%w: simplified SWU needs A·B != 0", ErrCurveMapping)
	}
	one := f.fromBig(big.NewInt(1))

	return func(ub *big.Int) (*big.Int, *big.Int, error) {
		u := f.fromBig(ub)

		// 1. tv1 = ζ·u², ta = tv1² + tv1
		zetaU2 := f.mul(zeta, f.mul(u, u))
		ta := f.add(f.mul(zetaU2, zetaU2), zetaU2)

		// 2. num_x1 = B·(ta + 1)
		numX1 := f.mul(b, f.add(ta, one))

		// 3. div = A·(ta == 0 ? ζ : -ta)
		div := f.mul(a, f.neg(ta))
		if f.isZero(ta) {
			div = f.mul(a, zeta)
		}
		if f.isZero(div) {
			return nil, nil, fmt.Errorf("%w: zero denominator", ErrCurveMapping)
		}
		div2 := f.mul(div, div)
		div3 := f.mul(div2, div)

		// 4. gx1 = num_gx1 / div³, num_gx1 = (num_x1² + A·div²)·num_x1 + B·div³
		numGx1 := f.add(f.mul(numX1, numX1), f.mul(a, div2))
		numGx1 = f.add(f.mul(numGx1, numX1), f.mul(b, div3))
		gx1 := f.mul(numGx1, f.inverse(div3))
		divInv := f.inverse(div)

		// 5. If gx1 is a non-zero square, (x1, y1) = (num_x1/div, √gx1).
		//    Otherwise y1 = √(ζ·gx1) and (x2, y2) = (ζu²·num_x1/div, ζu²·u·y1).
		var x, y E
		if f.legendre(gx1) == 1 {
			x = f.mul(numX1, divInv)
			y, _ = f.sqrt(gx1)
		} else {
			y1, ok := f.sqrt(f.mul(zeta, gx1))
			if !ok {
				return nil, nil, fmt.Errorf("%w: ζ·g(x1) is not a square", ErrCurveMapping)
			}
			x = f.mul(f.mul(zetaU2, numX1), divInv)
			y = f.mul(f.mul(zetaU2, u), y1)
		}

		// 6. Fix the sign of y so that parity(y) == parity(u).
		yb := f.toBig(y)
		if yb.Bit(0) != ub.Bit(0) {
			yb = f.toBig(f.neg(y))
		}
		return f.toBig(x), yb, nil
	}, nil
}
