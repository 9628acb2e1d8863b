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
	"math/big"

	gnarkstark "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
)

// group is the point arithmetic behind a CurveParams. Points are affine with
// reduced coordinates, and (0, 0) is the point at infinity.
type group interface {
	add(x1, y1, x2, y2 *big.Int) (x, y *big.Int)
	double(x, y *big.Int) (*big.Int, *big.Int)
	scalarMult(x, y, k *big.Int) (*big.Int, *big.Int)
	isOnCurve(x, y *big.Int) bool
	// decompress returns a y with y² = x³ + A·x + B, or nil if there is none.
	decompress(x *big.Int) *big.Int
}

var (
	starkP         = fp.Modulus()
	starkA, starkB = coefficients()
)

func coefficients() (a, b *big.Int) {
	ea, eb := gnarkstark.CurveCoefficients()
	return ea.BigInt(new(big.Int)), eb.BigInt(new(big.Int))
}

// starkGroup is the STARK curve as implemented by gnark-crypto.
type starkGroup struct{}

func toAffine(x, y *big.Int) gnarkstark.G1Affine {
	var p gnarkstark.G1Affine
	p.X.SetBigInt(x)
	p.Y.SetBigInt(y)
	return p
}

func fromAffine(p *gnarkstark.G1Affine) (*big.Int, *big.Int) {
	return p.X.BigInt(new(big.Int)), p.Y.BigInt(new(big.Int))
}

func fromJacobian(p *gnarkstark.G1Jac) (*big.Int, *big.Int) {
	var a gnarkstark.G1Affine
	a.FromJacobian(p)
	return fromAffine(&a)
}

func (starkGroup) add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	p, q := toAffine(x1, y1), toAffine(x2, y2)
	var r gnarkstark.G1Affine
	r.Add(&p, &q)
	return fromAffine(&r)
}

func (starkGroup) double(x, y *big.Int) (*big.Int, *big.Int) {
	p := toAffine(x, y)
	var j gnarkstark.G1Jac
	j.FromAffine(&p)
	j.DoubleAssign()
	return fromJacobian(&j)
}

// scalarMult runs a Montgomery ladder over a fixed number of bits. Adding
// the group order once or twice gives the scalar exactly one bit more than
// the order, so every call performs the same sequence of additions and
// doublings whatever the value of k.
func (starkGroup) scalarMult(x, y, k *big.Int) (*big.Int, *big.Int) {
	base := toAffine(x, y)
	if base.IsInfinity() {
		return new(big.Int), new(big.Int)
	}
	r := fr.Modulus()
	kk := new(big.Int).Mod(k, r)
	kk.Add(kk, r)
	if kk.BitLen() == r.BitLen() {
		kk.Add(kk, r)
	}

	var r0, r1 gnarkstark.G1Jac
	r0.FromAffine(&base)
	r1.Double(&r0)
	// r1 = r0 + base throughout.
	for i := r.BitLen() - 1; i >= 0; i-- {
		bit := int(kk.Bit(i))
		cswap(&r0, &r1, bit)
		r1.AddAssign(&r0)
		r0.DoubleAssign()
		cswap(&r0, &r1, bit)
	}
	return fromJacobian(&r0)
}

// cswap swaps a and b in constant time when c is 1.
func cswap(a, b *gnarkstark.G1Jac, c int) {
	for _, e := range [][2]*fp.Element{{&a.X, &b.X}, {&a.Y, &b.Y}, {&a.Z, &b.Z}} {
		var t fp.Element
		t.Select(c, e[0], e[1])
		e[1].Select(c, e[1], e[0])
		*e[0] = t
	}
}

func (starkGroup) isOnCurve(x, y *big.Int) bool {
	p := toAffine(x, y)
	return !p.IsInfinity() && p.IsOnCurve()
}

func (starkGroup) decompress(x *big.Int) *big.Int {
	a, b := gnarkstark.CurveCoefficients()
	var ex, rhs, y fp.Element
	ex.SetBigInt(x)
	rhs.Square(&ex).Add(&rhs, &a).Mul(&rhs, &ex).Add(&rhs, &b)
	if y.Sqrt(&rhs) == nil {
		return nil
	}
	return y.BigInt(new(big.Int))
}

// weierstrass implements the affine group law for an arbitrary short
// Weierstrass curve. It is not constant time and exists for small
// parameter sets that have no optimized implementation.
type weierstrass struct {
	c *CurveParams
}

func (w weierstrass) mod(v *big.Int) *big.Int {
	return v.Mod(v, w.c.P)
}

func (w weierstrass) add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	switch {
	case IsInfinity(x1, y1):
		return new(big.Int).Set(x2), new(big.Int).Set(y2)
	case IsInfinity(x2, y2):
		return new(big.Int).Set(x1), new(big.Int).Set(y1)
	case x1.Cmp(x2) == 0:
		if w.mod(new(big.Int).Add(y1, y2)).Sign() == 0 {
			return new(big.Int), new(big.Int)
		}
		return w.double(x1, y1)
	}
	// λ = (y2 - y1) / (x2 - x1)
	den := w.mod(new(big.Int).Sub(x2, x1))
	l := new(big.Int).Sub(y2, y1)
	l.Mul(l, den.ModInverse(den, w.c.P))
	return w.chord(w.mod(l), x1, y1, x2)
}

func (w weierstrass) double(x, y *big.Int) (*big.Int, *big.Int) {
	if IsInfinity(x, y) || y.Sign() == 0 {
		return new(big.Int), new(big.Int)
	}
	// λ = (3x² + A) / 2y
	l := new(big.Int).Mul(x, x)
	l.Mul(l, big.NewInt(3))
	l.Add(l, w.c.A)
	den := new(big.Int).Lsh(y, 1)
	den.ModInverse(w.mod(den), w.c.P)
	l.Mul(l, den)
	return w.chord(w.mod(l), x, y, x)
}

// chord returns the third intersection of the line of slope l through
// (x1, y1), reflected over the x axis.
func (w weierstrass) chord(l, x1, y1, x2 *big.Int) (*big.Int, *big.Int) {
	x3 := new(big.Int).Mul(l, l)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	w.mod(x3)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, l)
	y3.Sub(y3, y1)
	return x3, w.mod(y3)
}

func (w weierstrass) scalarMult(x, y, k *big.Int) (*big.Int, *big.Int) {
	rx, ry := new(big.Int), new(big.Int)
	for i := k.BitLen() - 1; i >= 0; i-- {
		rx, ry = w.double(rx, ry)
		if k.Bit(i) == 1 {
			rx, ry = w.add(rx, ry, x, y)
		}
	}
	return rx, ry
}

func (w weierstrass) rhs(x *big.Int) *big.Int {
	v := new(big.Int).Mul(x, x)
	v.Add(v, w.c.A)
	v.Mul(v, x)
	v.Add(v, w.c.B)
	return w.mod(v)
}

func (w weierstrass) isOnCurve(x, y *big.Int) bool {
	y2 := new(big.Int).Mul(y, y)
	return w.mod(y2).Cmp(w.rhs(x)) == 0
}

func (w weierstrass) decompress(x *big.Int) *big.Int {
	return new(big.Int).ModSqrt(w.rhs(x), w.c.P)
}
