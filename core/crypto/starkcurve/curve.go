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

// Package starkcurve implements the STARK curve, a short Weierstrass curve
// y² = x³ + A·x + B over a 252-bit prime field, along with the canonical
// compressed point and scalar encodings used by the VRF.
//
// Arithmetic on the STARK curve is delegated to gnark-crypto. Other
// parameter sets, such as the small curves used in tests, fall back to
// textbook affine formulas.
//
// Reference: https://docs.starkware.co/starkex/crypto/stark-curve.html
package starkcurve

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
)

// CurveParams describes a short Weierstrass curve y² = x³ + A·x + B.
// The point at infinity is represented as (0, 0), which requires B != 0.
type CurveParams struct {
	Name     string
	P        *big.Int // the order of the underlying field
	N        *big.Int // the order of the base point
	A, B     *big.Int // the constants of the curve equation
	Gx, Gy   *big.Int // (x,y) of the base point
	Cofactor *big.Int // number of points on the curve divided by N
	Zeta     *big.Int // non-square constant for the simplified SWU map
	BitSize  int      // the size of the underlying field
}

var (
	initonce sync.Once
	stark    *CurveParams
)

func initStark() {
	stark = &CurveParams{Name: "STARK", BitSize: 252}
	stark.P = mustInt("3618502788666131213697322783095070105623107215331596699973092056135872020481")
	stark.N = mustInt("3618502788666131213697322783095070105526743751716087489154079457884512865583")
	stark.A = big.NewInt(1)
	stark.B = mustInt("3141592653589793238462643383279502884197169399375105820974944592307816406665")
	stark.Gx = mustInt("874739451078007766457464989774322083649278607533249481151382481072868806602")
	stark.Gy = mustInt("152666792071518830868575557812948353041420400780739481342941381225525861407")
	stark.Cofactor = big.NewInt(1)
	stark.Zeta = big.NewInt(3)
}

func mustInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("starkcurve: bad constant %q", s))
	}
	return v
}

// Stark returns the STARK curve. The returned value is shared and must not
// be modified.
func Stark() *CurveParams {
	initonce.Do(initStark)
	return stark
}

// Validate checks that the parameters describe a usable curve: the base
// point is on the curve and has order N.
func (curve *CurveParams) Validate() error {
	for _, v := range []*big.Int{curve.P, curve.N, curve.A, curve.B, curve.Gx, curve.Gy, curve.Cofactor, curve.Zeta} {
		if v == nil {
			return errors.New("starkcurve: incomplete curve parameters")
		}
	}
	if !curve.P.ProbablyPrime(20) {
		return errors.New("starkcurve: field order is not prime")
	}
	if curve.B.Sign() == 0 {
		return errors.New("starkcurve: B must be non-zero")
	}
	if curve.Cofactor.Sign() <= 0 {
		return errors.New("starkcurve: cofactor must be positive")
	}
	if !curve.IsOnCurve(curve.Gx, curve.Gy) {
		return errors.New("starkcurve: base point is not on the curve")
	}
	if x, y := curve.ScalarBaseMult(curve.N.Bytes()); !IsInfinity(x, y) {
		return errors.New("starkcurve: base point order is not N")
	}
	return nil
}

// IsInfinity reports whether (x, y) is the point at infinity.
func IsInfinity(x, y *big.Int) bool {
	return x.Sign() == 0 && y.Sign() == 0
}

// group returns the arithmetic for the curve: gnark-crypto for the STARK
// curve equation, generic affine formulas for any other parameter set.
func (curve *CurveParams) group() group {
	if curve.P.Cmp(starkP) == 0 && curve.A.Cmp(starkA) == 0 && curve.B.Cmp(starkB) == 0 {
		return starkGroup{}
	}
	return weierstrass{curve}
}

// IsOnCurve reports whether the given (x,y) lies on the curve.
// The point at infinity is not on the curve.
func (curve *CurveParams) IsOnCurve(x, y *big.Int) bool {
	if x.Sign() < 0 || x.Cmp(curve.P) >= 0 ||
		y.Sign() < 0 || y.Cmp(curve.P) >= 0 {
		return false
	}
	if IsInfinity(x, y) {
		return false
	}
	return curve.group().isOnCurve(x, y)
}

// Add returns the sum of (x1,y1) and (x2,y2).
func (curve *CurveParams) Add(x1, y1, x2, y2 *big.Int) (x, y *big.Int) {
	return curve.group().add(x1, y1, x2, y2)
}

// Sub returns (x1,y1) - (x2,y2).
func (curve *CurveParams) Sub(x1, y1, x2, y2 *big.Int) (x, y *big.Int) {
	nx, ny := curve.Neg(x2, y2)
	return curve.Add(x1, y1, nx, ny)
}

// Neg returns -(x,y).
func (curve *CurveParams) Neg(x, y *big.Int) (*big.Int, *big.Int) {
	if IsInfinity(x, y) {
		return new(big.Int), new(big.Int)
	}
	ny := new(big.Int).Sub(curve.P, y)
	ny.Mod(ny, curve.P)
	return new(big.Int).Set(x), ny
}

// Double returns 2*(x,y).
func (curve *CurveParams) Double(x, y *big.Int) (*big.Int, *big.Int) {
	return curve.group().double(x, y)
}

// ScalarMult returns k*(Bx,By) where k is a number in big-endian form.
func (curve *CurveParams) ScalarMult(Bx, By *big.Int, k []byte) (*big.Int, *big.Int) {
	return curve.group().scalarMult(Bx, By, new(big.Int).SetBytes(k))
}

// ScalarBaseMult returns k*G, where G is the base point of the group
// and k is an integer in big-endian form.
func (curve *CurveParams) ScalarBaseMult(k []byte) (*big.Int, *big.Int) {
	return curve.ScalarMult(curve.Gx, curve.Gy, k)
}

// MulByCofactor returns cofactor*(x,y).
func (curve *CurveParams) MulByCofactor(x, y *big.Int) (*big.Int, *big.Int) {
	return curve.ScalarMult(x, y, curve.Cofactor.Bytes())
}
