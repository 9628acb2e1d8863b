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

// Package hint exposes the VRF to a Cairo virtual machine as a hint
// processor. Hints exchange Starknet field elements with the host.
package hint

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/golang/glog"
	"github.com/kr/pretty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
	"github.com/starkvrf/stark-vrf/core/crypto/vrf"
)

// Selectors understood by the processor.
const (
	SelectorVRF       = "vrf"
	SelectorSqrtRatio = "sqrt_ratio"
)

// DefaultSecret is the secret scalar used by NewDefault.
const DefaultSecret = 42

var (
	// ErrUnknownSelector is returned for selectors that MatchesSelector rejects.
	ErrUnknownSelector = errors.New("hint: unknown selector")
	// ErrInvalidInput is returned when the felts passed to a hint are malformed.
	ErrInvalidInput = errors.New("hint: invalid input")
)

var (
	once       sync.Once
	executions *prometheus.CounterVec
)

func createMetrics(r prometheus.Registerer) {
	executions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "starkvrf",
		Subsystem: "hint",
		Name:      "executions_total",
		Help:      "Number of hints executed, by selector and result.",
	}, []string{"selector", "result"})
	if err := r.Register(executions); err != nil {
		glog.Warningf("hint: registering metrics: %v", err)
	}
}

// Processor executes the "vrf" and "sqrt_ratio" hints with a fixed secret key.
type Processor struct {
	sk  *vrf.PrivateKey
	vrf *vrf.ECVRF
}

// New returns a processor proving with secret, reduced modulo the group order.
// Metrics are registered with prometheus.DefaultRegisterer on first use.
func New(secret *big.Int) (*Processor, error) {
	once.Do(func() { createMetrics(prometheus.DefaultRegisterer) })

	curve := starkcurve.Stark()
	x := new(big.Int).Mod(secret, curve.N)
	sk, err := vrf.NewKey(curve, x)
	if err != nil {
		return nil, err
	}
	v, err := vrf.NewStarkPedersenSSWU(sk.Public())
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("hint: processor for public key %x", sk.Public().Bytes())
	return &Processor{sk: sk, vrf: v}, nil
}

// NewDefault returns a processor with DefaultSecret.
func NewDefault() (*Processor, error) {
	return New(big.NewInt(DefaultSecret))
}

// PublicKey returns the public key proofs are made under.
func (p *Processor) PublicKey() *vrf.PublicKey {
	return p.sk.Public()
}

// MatchesSelector reports whether the processor handles selector.
func (p *Processor) MatchesSelector(selector string) bool {
	return selector == SelectorVRF || selector == SelectorSqrtRatio
}

// Execute runs the hint named by selector on input.
func (p *Processor) Execute(selector string, input []fp.Element) ([]fp.Element, error) {
	var (
		out []fp.Element
		err error
	)
	switch selector {
	case SelectorVRF:
		out, err = p.executeVRF(input)
	case SelectorSqrtRatio:
		out, err = p.executeSqrtRatio(input)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownSelector, selector)
	}
	result := "ok"
	if err != nil {
		result = "error"
		glog.Warningf("hint %q: %v", selector, err)
	}
	executions.WithLabelValues(selector, result).Inc()
	return out, err
}

// executeVRF proves and verifies over the concatenated big-endian encodings
// of the input felts and returns [Gamma.x, Gamma.y, c, s].
func (p *Processor) executeVRF(input []fp.Element) ([]fp.Element, error) {
	alpha := make([]byte, 0, len(input)*fp.Bytes)
	for i := range input {
		b := input[i].Bytes()
		alpha = append(alpha, b[:]...)
	}

	pi, err := p.vrf.Prove(p.sk, alpha)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("hint vrf: seed %x, proof %# v", alpha, pretty.Formatter(pi))
	if err := p.vrf.Verify(alpha, pi); err != nil {
		return nil, err
	}

	out := make([]fp.Element, 4)
	for i, v := range []*big.Int{pi.GammaX, pi.GammaY, pi.C, pi.S} {
		out[i].SetBigInt(v)
	}
	return out, nil
}

// executeSqrtRatio returns √(u/v) when u/v is a square and √(z·u/v)
// otherwise, for input [u, v, z] with v != 0.
func (p *Processor) executeSqrtRatio(input []fp.Element) ([]fp.Element, error) {
	if len(input) != 3 {
		return nil, fmt.Errorf("%w: sqrt_ratio takes 3 felts, got %d", ErrInvalidInput, len(input))
	}
	u, v, z := input[0], input[1], input[2]
	if v.IsZero() {
		return nil, fmt.Errorf("%w: sqrt_ratio divisor is zero", ErrInvalidInput)
	}

	var gx1, r fp.Element
	gx1.Div(&u, &v)
	if gx1.Legendre() == 1 {
		glog.V(2).Info("hint sqrt_ratio: quadratic residue")
		r.Sqrt(&gx1)
	} else {
		glog.V(2).Info("hint sqrt_ratio: non-residue")
		var zgx1 fp.Element
		zgx1.Mul(&z, &gx1)
		if r.Sqrt(&zgx1) == nil {
			return nil, fmt.Errorf("%w: neither u/v nor z·u/v is a square", ErrInvalidInput)
		}
	}
	return []fp.Element{r}, nil
}
