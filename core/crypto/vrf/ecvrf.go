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

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
)

// StarkPedersenSSWU is the suite string of ECVRF over the STARK curve with
// the Pedersen hash and the simplified SWU map.
const StarkPedersenSSWU byte = 0xff

// Domain separation tags, following the suite string.
const (
	tagHashToCurve byte = 0x01
	tagChallenge   byte = 0x02
	tagProofToHash byte = 0x03
	terminator     byte = 0x00
)

// ECVRF evaluates the VRF for a single public key. It is immutable and safe
// for concurrent use.
type ECVRF struct {
	suite  byte
	pub    *PublicKey
	mapper *SWUMapper
	hasher HashToField
}

var _ VRF = (*ECVRF)(nil)

// New returns an ECVRF for pub with the given suite string and hash. The
// curve parameters are validated once here, when the SWU mapper is built.
// The public key is used as is; callers that obtained it from an untrusted
// source should use ParsePublicKey.
func New(suite byte, pub *PublicKey, hasher HashToField) (*ECVRF, error) {
	mapper, err := NewSWUMapper(pub.CurveParams)
	if err != nil {
		return nil, err
	}
	return &ECVRF{
		suite:  suite,
		pub:    pub,
		mapper: mapper,
		hasher: hasher,
	}, nil
}

// NewStarkPedersenSSWU returns the ECVRF-STARK-PEDERSEN-SSWU engine for pub.
func NewStarkPedersenSSWU(pub *PublicKey) (*ECVRF, error) {
	return New(StarkPedersenSSWU, pub, NewPedersenHash())
}

// Suite returns the suite string.
func (v *ECVRF) Suite() byte { return v.suite }

// PublicKey returns the public key the engine verifies against.
func (v *ECVRF) PublicKey() *PublicKey { return v.pub }

func (v *ECVRF) curve() *starkcurve.CurveParams { return v.pub.CurveParams }

// Prove returns proof pi that beta is the correct hash output.
//
//	sk - VRF private key, whose public key must be the engine's
//	alpha - input alpha, an octet string
func (v *ECVRF) Prove(sk *PrivateKey, alpha []byte) (*Proof, error) {
	curve := v.curve()
	x := sk.x.Bytes()

	// 1.  Y = x*B must be the public key of the engine.
	Yx, Yy := curve.ScalarBaseMult(x)
	if Yx.Cmp(v.pub.X) != 0 || Yy.Cmp(v.pub.Y) != 0 {
		return nil, ErrInvalidSecretKey
	}

	// 2.  H = ECVRF_hash_to_curve(suite_string, Y, alpha_string)
	Hx, Hy, err := v.hashToCurve(alpha)
	if err != nil {
		return nil, err
	}

	// 3.  Gamma = x*H
	Gx, Gy := curve.ScalarMult(Hx, Hy, x)

	// 4.  k = ECVRF_nonce_generation(SK, point_to_string(H))
	k, err := v.Nonce(sk, curve.MarshalCompressed(Hx, Hy))
	if err != nil {
		return nil, err
	}

	// 5.  c = ECVRF_hash_points(Y, H, Gamma, k*B, k*H)
	kBx, kBy := curve.ScalarBaseMult(k.Bytes())
	kHx, kHy := curve.ScalarMult(Hx, Hy, k.Bytes())
	c, err := v.hashPoints(v.pub.X, v.pub.Y, Hx, Hy, Gx, Gy, kBx, kBy, kHx, kHy)
	if err != nil {
		return nil, err
	}

	// 6.  s = (k + c*x) mod q
	s := new(big.Int).Mul(c, sk.x)
	s.Add(s, k)
	s.Mod(s, curve.N)

	return &Proof{GammaX: Gx, GammaY: Gy, C: c, S: s}, nil
}

// Verify checks that pi is a valid proof for alpha under the engine's public key.
func (v *ECVRF) Verify(alpha []byte, pi *Proof) error {
	curve := v.curve()
	if err := pi.check(curve); err != nil {
		return fmt.Errorf("%w: %v", ErrProofVerification, err)
	}

	// 1.  H = ECVRF_hash_to_curve(suite_string, Y, alpha_string)
	Hx, Hy, err := v.hashToCurve(alpha)
	if err != nil {
		return err
	}

	// 2.  U = s*B - c*Y
	sBx, sBy := curve.ScalarBaseMult(pi.S.Bytes())
	cYx, cYy := curve.ScalarMult(v.pub.X, v.pub.Y, pi.C.Bytes())
	Ux, Uy := curve.Sub(sBx, sBy, cYx, cYy)

	// 3.  V = s*H - c*Gamma
	sHx, sHy := curve.ScalarMult(Hx, Hy, pi.S.Bytes())
	cGx, cGy := curve.ScalarMult(pi.GammaX, pi.GammaY, pi.C.Bytes())
	Vx, Vy := curve.Sub(sHx, sHy, cGx, cGy)

	// 4.  c' = ECVRF_hash_points(Y, H, Gamma, U, V)
	c, err := v.hashPoints(v.pub.X, v.pub.Y, Hx, Hy, pi.GammaX, pi.GammaY, Ux, Uy, Vx, Vy)
	if err != nil {
		return err
	}

	// 5.  If c and c' are equal, output VALID; else output INVALID.
	if c.Cmp(pi.C) != 0 {
		return ErrProofVerification
	}
	return nil
}

// ProofToHash returns the VRF output beta, a base field element, for pi.
func (v *ECVRF) ProofToHash(pi *Proof) (*big.Int, error) {
	curve := v.curve()
	if err := pi.check(curve); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}

	// cofactor*Gamma must be Gamma.
	cx, cy := curve.MulByCofactor(pi.GammaX, pi.GammaY)
	if cx.Cmp(pi.GammaX) != 0 || cy.Cmp(pi.GammaY) != 0 {
		return nil, fmt.Errorf("%w: gamma is not in the prime order subgroup", ErrProofVerification)
	}

	// beta = Hash(suite_string || 0x03 || point_to_string(Gamma) || 0x00) mod p
	str := []byte{v.suite, tagProofToHash}
	str = append(str, curve.MarshalCompressed(pi.GammaX, pi.GammaY)...)
	str = append(str, terminator)
	h, err := v.hasher.Hash(str)
	if err != nil {
		return nil, fmt.Errorf("vrf: proof to hash: %w", err)
	}
	return new(big.Int).Mod(h, curve.P), nil
}

// hashToCurve maps (Y, alpha) to a curve point:
//
//	t = Hash(suite_string || 0x01 || point_to_string(Y) || alpha_string) mod p
//	H = map_to_curve(t)
func (v *ECVRF) hashToCurve(alpha []byte) (x, y *big.Int, err error) {
	curve := v.curve()
	str := []byte{v.suite, tagHashToCurve}
	str = append(str, curve.MarshalCompressed(v.pub.X, v.pub.Y)...)
	str = append(str, alpha...)

	t, err := v.hasher.Hash(str)
	if err != nil {
		return nil, nil, fmt.Errorf("vrf: hash to curve: %w", err)
	}
	return v.mapper.Map(new(big.Int).Mod(t, curve.P))
}

// hashPoints hashes a list of points, given as consecutive (x, y) pairs, to a
// scalar:
//
//	c = Hash(suite_string || 0x02 || point_to_string(P1) || ... || 0x00) mod q
func (v *ECVRF) hashPoints(pm ...*big.Int) (*big.Int, error) {
	curve := v.curve()
	str := []byte{v.suite, tagChallenge}
	for i := 0; i < len(pm); i += 2 {
		str = append(str, curve.MarshalCompressed(pm[i], pm[i+1])...)
	}
	str = append(str, terminator)

	c, err := v.hasher.Hash(str)
	if err != nil {
		return nil, fmt.Errorf("vrf: hash points: %w", err)
	}
	return new(big.Int).Mod(c, curve.N), nil
}

// Nonce derives the proof nonce from the secret scalar and h, the encoded
// hash-to-curve point:
//
//	k = Hash(int_to_string(x) || h) mod q
func (v *ECVRF) Nonce(sk *PrivateKey, h []byte) (*big.Int, error) {
	curve := v.curve()
	str := curve.MarshalScalar(sk.x)
	str = append(str, h...)

	k, err := v.hasher.Hash(str)
	if err != nil {
		return nil, fmt.Errorf("vrf: nonce: %w", err)
	}
	return new(big.Int).Mod(k, curve.N), nil
}
