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

// Package vrf implements an elliptic curve verifiable random function over
// the STARK curve, using the Starknet Pedersen hash as the hash-to-field
// primitive and the simplified SWU map as the hash-to-curve primitive.
//
// A VRF is a pseudorandom function f_k from a secret key k, such that that
// knowledge of k not only enables one to evaluate f_k at for any message m,
// but also to provide an NP-proof that the value f_k(m) is indeed correct
// without compromising the unpredictability of f_k for any m' != m.
// http://ieeexplore.ieee.org/stamp/stamp.jsp?tp=&arnumber=814584
package vrf

//go:generate mockgen -destination=mock_vrf/mock_vrf.go -package=mock_vrf github.com/starkvrf/stark-vrf/core/crypto/vrf HashToField

import (
	"errors"
	"math/big"
)

var (
	// ErrInvalidSecretKey occurs when the secret key does not match the public key of the VRF.
	ErrInvalidSecretKey = errors.New("vrf: secret key does not match public key")
	// ErrProofVerification occurs when a proof does not verify against an input.
	ErrProofVerification = errors.New("vrf: proof verification failed")
	// ErrInvalidEncoding occurs when a proof or key cannot be decoded.
	ErrInvalidEncoding = errors.New("vrf: invalid encoding")
	// ErrCurveMapping occurs when the curve does not admit the simplified SWU map.
	ErrCurveMapping = errors.New("vrf: curve mapping failed")
	// ErrShortMessage occurs when the input to the hash is too short.
	ErrShortMessage = errors.New("vrf: message too short")
)

// VRF evaluates and verifies a verifiable random function bound to a public key.
type VRF interface {
	// Prove returns a proof that the VRF output for alpha is correct.
	// Proofs are deterministic in (sk, alpha).
	Prove(sk *PrivateKey, alpha []byte) (*Proof, error)

	// Verify checks that pi was produced for alpha by the holder of the
	// secret key matching the VRF's public key.
	Verify(alpha []byte, pi *Proof) error

	// ProofToHash returns the VRF output beta from a proof.
	// ProofToHash should be run only on proofs that have been verified.
	ProofToHash(pi *Proof) (beta *big.Int, err error)
}

// HashToField maps an octet string to a non-negative integer. Callers reduce
// the result into the field they need.
type HashToField interface {
	Hash(msg []byte) (*big.Int, error)
}
