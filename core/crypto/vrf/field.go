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
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// field is the base field arithmetic the SWU map runs on.
type field[E any] interface {
	fromBig(v *big.Int) E
	toBig(e E) *big.Int
	add(a, b E) E
	mul(a, b E) E
	neg(a E) E
	// inverse returns 0 for 0.
	inverse(a E) E
	// sqrt returns false if a is not a square.
	sqrt(a E) (E, bool)
	legendre(a E) int
	isZero(a E) bool
}

// starkField is the STARK base field as implemented by gnark-crypto.
type starkField struct{}

func (starkField) fromBig(v *big.Int) fp.Element {
	var e fp.Element
	e.SetBigInt(v)
	return e
}

func (starkField) toBig(e fp.Element) *big.Int { return e.BigInt(new(big.Int)) }

func (starkField) add(a, b fp.Element) fp.Element {
	var e fp.Element
	e.Add(&a, &b)
	return e
}

func (starkField) mul(a, b fp.Element) fp.Element {
	var e fp.Element
	e.Mul(&a, &b)
	return e
}

func (starkField) neg(a fp.Element) fp.Element {
	var e fp.Element
	e.Neg(&a)
	return e
}

func (starkField) inverse(a fp.Element) fp.Element {
	var e fp.Element
	e.Inverse(&a)
	return e
}

func (starkField) sqrt(a fp.Element) (fp.Element, bool) {
	var e fp.Element
	if e.Sqrt(&a) == nil {
		return e, false
	}
	return e, true
}

func (starkField) legendre(a fp.Element) int { return a.Legendre() }
func (starkField) isZero(a fp.Element) bool  { return a.IsZero() }

// primeField is arithmetic modulo an arbitrary prime, for curves that have
// no optimized field implementation.
type primeField struct {
	p *big.Int
}

func (f primeField) fromBig(v *big.Int) *big.Int { return new(big.Int).Mod(v, f.p) }
func (f primeField) toBig(e *big.Int) *big.Int   { return new(big.Int).Set(e) }

func (f primeField) add(a, b *big.Int) *big.Int {
	e := new(big.Int).Add(a, b)
	return e.Mod(e, f.p)
}

func (f primeField) mul(a, b *big.Int) *big.Int {
	e := new(big.Int).Mul(a, b)
	return e.Mod(e, f.p)
}

func (f primeField) neg(a *big.Int) *big.Int {
	e := new(big.Int).Neg(a)
	return e.Mod(e, f.p)
}

func (f primeField) inverse(a *big.Int) *big.Int {
	e := new(big.Int).ModInverse(a, f.p)
	if e == nil {
		return new(big.Int)
	}
	return e
}

func (f primeField) sqrt(a *big.Int) (*big.Int, bool) {
	e := new(big.Int).ModSqrt(a, f.p)
	return e, e != nil
}

func (f primeField) legendre(a *big.Int) int { return big.Jacobi(a, f.p) }
func (f primeField) isZero(a *big.Int) bool  { return a.Sign() == 0 }
