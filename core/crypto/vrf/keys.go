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
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
)

// PublicKey holds a public VRF key, Y = x·G.
type PublicKey struct {
	*starkcurve.CurveParams
	X, Y *big.Int
}

// PrivateKey holds a private VRF key.
type PrivateKey struct {
	PublicKey
	x *big.Int
}

// Public returns the public key corresponding to priv.
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}

// NewKey derives the key pair for the secret scalar x, which must be in [1, N).
func NewKey(curve *starkcurve.CurveParams, x *big.Int) (*PrivateKey, error) {
	if x.Sign() <= 0 || x.Cmp(curve.N) >= 0 {
		return nil, fmt.Errorf("%w: secret scalar out of range", ErrInvalidSecretKey)
	}
	Yx, Yy := curve.ScalarBaseMult(x.Bytes())
	return &PrivateKey{
		x:         new(big.Int).Set(x),
		PublicKey: PublicKey{CurveParams: curve, X: Yx, Y: Yy},
	}, nil
}

// GenerateKey returns a key pair with a secret scalar drawn uniformly from
// [1, N) using rand. If rand is nil, crypto/rand.Reader is used.
func GenerateKey(curve *starkcurve.CurveParams, random io.Reader) (*PrivateKey, error) {
	if random == nil {
		random = rand.Reader
	}
	max := new(big.Int).Sub(curve.N, big.NewInt(1))
	k, err := rand.Int(random, max)
	if err != nil {
		return nil, fmt.Errorf("vrf: generating secret scalar: %w", err)
	}
	return NewKey(curve, k.Add(k, big.NewInt(1)))
}

// Bytes returns the canonical scalar encoding of the secret scalar.
func (priv *PrivateKey) Bytes() []byte {
	return priv.MarshalScalar(priv.x)
}

// ParsePrivateKey decodes a secret scalar encoded by PrivateKey.Bytes.
func ParsePrivateKey(curve *starkcurve.CurveParams, b []byte) (*PrivateKey, error) {
	x, err := curve.UnmarshalScalar(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return NewKey(curve, x)
}

// Bytes returns the compressed encoding of the public key.
func (pub *PublicKey) Bytes() []byte {
	return pub.MarshalCompressed(pub.X, pub.Y)
}

// Equal reports whether pub and other are the same point on the same curve.
func (pub *PublicKey) Equal(other *PublicKey) bool {
	return pub.CurveParams == other.CurveParams &&
		pub.X.Cmp(other.X) == 0 && pub.Y.Cmp(other.Y) == 0
}

// ParsePublicKey decodes a public key encoded by PublicKey.Bytes. Points off
// the curve are rejected; the point at infinity is not a valid key.
func ParsePublicKey(curve *starkcurve.CurveParams, b []byte) (*PublicKey, error) {
	x, y, err := curve.UnmarshalCompressed(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	if starkcurve.IsInfinity(x, y) {
		return nil, fmt.Errorf("%w: public key is the point at infinity", ErrInvalidEncoding)
	}
	return &PublicKey{CurveParams: curve, X: x, Y: y}, nil
}
