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
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
	"github.com/starkvrf/stark-vrf/core/crypto/vrf/mock_vrf"
)

func hd(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%v): %v", s, err)
	}
	return b
}

func newEngine(t *testing.T, curve *starkcurve.CurveParams, x int64) (*ECVRF, *PrivateKey) {
	t.Helper()
	sk, err := NewKey(curve, big.NewInt(x))
	if err != nil {
		t.Fatalf("NewKey(%v): %v", x, err)
	}
	v, err := New(StarkPedersenSSWU, sk.Public(), NewPedersenHash())
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	return v, sk
}

func TestVectorsStarkPedersenSSWU(t *testing.T) {
	for _, tc := range []struct {
		x     int64
		alpha []byte
		pk    []byte
		k     string
		c     string
		s     string
		pi    []byte
		beta  string
	}{
		{
			x:     190,
			alpha: []byte("test"),
			pk:    hd(t, "9954a50cdf29458ab587930c77ca42021f1a5b5247878806bc30802c5c3e7385"),
			k:     "1156837887122832180589380849066859212312658368978632883350479377425559300963",
			c:     "3454715449876932282790317794557522107796420037708234778833177723544470926110",
			s:     "2603768615170216231534338074788370593291846472931405324765864973778206591340",
			pi: hd(t, "78e208bd59088af198aff7da6c4ef51d4b3769d3850446a23c39bb557e75f785"+
				"1eb30d89b37edeed6c39e710c3272f7448aa37aca06f984db123a1f4b54ca307"+
				"6c095ceb6b308e2c0a7b1c863d60a16e1e39b42be39bf4d954c8a19f49aec105"),
			beta: "0x9e37b204a9510f2c1529a7fcb6f5d5aad361220928f7d9a0de32707c6649b5",
		},
		{
			x:     42,
			alpha: []byte{},
			pk:    hd(t, "bb706ca7cb0eca29429d69c24e9646051121ca4af5bfeae372f881d9d1194200"),
			k:     "2800188996107211198590192503843007000206545620011304105924340559891010926630",
			c:     "619214993894062819955539605627000102649678239375971240260309747208039997967",
			s:     "3477699218994931140841596458511520572805825411789483772778793737437100782163",
			pi: hd(t, "1358514e754ee94ebbfd21073c3b8896bd21eeb906eeeda48d3261ea7e945681"+
				"0fa2f4cbafdc6216b1978ceb9d4809e82bd759e87d2de787a618b6a398765e01"+
				"5332bafa5860563c24bda99b9eea07ccd9013a766cffdd15b1a15755d94eb007"),
			beta: "0x5ee580a85039b45149994defd22aba8646b621a44d178fea12f7c931f23d7bb",
		},
		{
			x:     1,
			alpha: []byte("sample"),
			pk:    hd(t, "cacf43c98b3d723de019180d9bfdacdec7f0405a41edec7b1b979985c115ef01"),
			k:     "2342135492070107688608209264501622799944843046466379333318361648000931954651",
			c:     "803440549324076153899845512777514987779610048375150714477317081912583496071",
			s:     "3145576041394183842508054777279137787724453094841530047795678729913515450722",
			pi: hd(t, "a98579a7429109112a0c2e40afe318ec82a3af2ad1ec3dfd05fd138e8f3edc87"+
				"87a1d1c953fac5487214d4f435d6a6b7a5848cc3b83ca7da6817cc4532bbc601"+
				"6221714e02c66ff4c97cb35d94237ae1e002b70c5d3ea21eb7557f003c55f406"),
			beta: "0x3509064ade6b1cf5ad16d95ddbe7aa5a998bcc776d2d3a4fc4c5e6140b3ddc8",
		},
	} {
		t.Run(fmt.Sprintf("%d/%q", tc.x, tc.alpha), func(t *testing.T) {
			v, sk := newEngine(t, starkcurve.Stark(), tc.x)
			curve := starkcurve.Stark()

			if got := sk.Public().Bytes(); !bytes.Equal(got, tc.pk) {
				t.Errorf("pk: %x, want %x", got, tc.pk)
			}

			Hx, Hy, err := v.hashToCurve(tc.alpha)
			if err != nil {
				t.Fatalf("hashToCurve(): %v", err)
			}
			k, err := v.Nonce(sk, curve.MarshalCompressed(Hx, Hy))
			if err != nil {
				t.Fatalf("Nonce(): %v", err)
			}
			if want := hexInt(t, tc.k); k.Cmp(want) != 0 {
				t.Errorf("k: %v, want %v", k, want)
			}

			pi, err := v.Prove(sk, tc.alpha)
			if err != nil {
				t.Fatalf("Prove(): %v", err)
			}
			if want := hexInt(t, tc.c); pi.C.Cmp(want) != 0 {
				t.Errorf("c: %v, want %v", pi.C, want)
			}
			if want := hexInt(t, tc.s); pi.S.Cmp(want) != 0 {
				t.Errorf("s: %v, want %v", pi.S, want)
			}
			if got := mustMarshal(t, curve, pi); !bytes.Equal(got, tc.pi) {
				t.Errorf("pi: %x, want %x", got, tc.pi)
			}

			if err := v.Verify(tc.alpha, pi); err != nil {
				t.Errorf("Verify(): %v", err)
			}
			beta, err := v.ProofToHash(pi)
			if err != nil {
				t.Fatalf("ProofToHash(): %v", err)
			}
			if want := hexInt(t, tc.beta); beta.Cmp(want) != 0 {
				t.Errorf("beta: %#x, want %#x", beta, want)
			}
		})
	}
}

// The engine is not tied to the STARK curve.
func TestVectorsToyCurve(t *testing.T) {
	for _, tc := range []struct {
		alpha []byte
		H     [2]int64
		gamma [2]int64
		k     int64
		pi    []byte
		beta  int64
	}{
		{alpha: []byte("test"), H: [2]int64{3854, 62985}, gamma: [2]int64{6540, 3643}, k: 31827, pi: hd(t, "8c1900312e7000"), beta: 0x73d9},
		{alpha: []byte("sample"), H: [2]int64{20342, 15127}, gamma: [2]int64{2828, 46993}, k: 22038, pi: hd(t, "0c0b80356154f6"), beta: 0x208f},
		{alpha: []byte(""), H: [2]int64{16201, 44413}, gamma: [2]int64{19535, 47211}, k: 28720, pi: hd(t, "4f4c8085eb5669"), beta: 0x9f6a},
	} {
		t.Run(string(tc.alpha), func(t *testing.T) {
			curve := toyCurve()
			if err := curve.Validate(); err != nil {
				t.Fatalf("Validate(): %v", err)
			}
			v, sk := newEngine(t, curve, 190)
			if got, want := [2]int64{sk.X.Int64(), sk.Y.Int64()}, [2]int64{13227, 11228}; got != want {
				t.Errorf("Y: %v, want %v", got, want)
			}

			Hx, Hy, err := v.hashToCurve(tc.alpha)
			if err != nil {
				t.Fatalf("hashToCurve(): %v", err)
			}
			if got := [2]int64{Hx.Int64(), Hy.Int64()}; got != tc.H {
				t.Errorf("H: %v, want %v", got, tc.H)
			}
			k, err := v.Nonce(sk, curve.MarshalCompressed(Hx, Hy))
			if err != nil {
				t.Fatalf("Nonce(): %v", err)
			}
			if k.Int64() != tc.k {
				t.Errorf("k: %v, want %v", k, tc.k)
			}

			pi, err := v.Prove(sk, tc.alpha)
			if err != nil {
				t.Fatalf("Prove(): %v", err)
			}
			if got := [2]int64{pi.GammaX.Int64(), pi.GammaY.Int64()}; got != tc.gamma {
				t.Errorf("gamma: %v, want %v", got, tc.gamma)
			}
			if got := mustMarshal(t, curve, pi); !bytes.Equal(got, tc.pi) {
				t.Errorf("pi: %x, want %x", got, tc.pi)
			}
			if err := v.Verify(tc.alpha, pi); err != nil {
				t.Errorf("Verify(): %v", err)
			}
			beta, err := v.ProofToHash(pi)
			if err != nil {
				t.Fatalf("ProofToHash(): %v", err)
			}
			if beta.Int64() != tc.beta {
				t.Errorf("beta: %#x, want %#x", beta, tc.beta)
			}
		})
	}
}

func TestProveKeyMismatch(t *testing.T) {
	v, _ := newEngine(t, starkcurve.Stark(), 190)
	other, err := NewKey(starkcurve.Stark(), big.NewInt(191))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Prove(other, []byte("test")); !errors.Is(err, ErrInvalidSecretKey) {
		t.Errorf("Prove(wrong key): %v, want %v", err, ErrInvalidSecretKey)
	}
}

func TestVerifyRejects(t *testing.T) {
	curve := starkcurve.Stark()
	v, sk := newEngine(t, curve, 190)
	alpha := []byte("test")
	pi, err := v.Prove(sk, alpha)
	if err != nil {
		t.Fatalf("Prove(): %v", err)
	}
	other, _ := newEngine(t, curve, 191)
	one := big.NewInt(1)
	nGx, nGy := curve.Neg(pi.GammaX, pi.GammaY)

	for _, tc := range []struct {
		desc  string
		v     *ECVRF
		alpha []byte
		pi    *Proof
	}{
		{desc: "alpha", v: v, alpha: []byte("tesu"), pi: pi},
		{desc: "public key", v: other, alpha: alpha, pi: pi},
		{desc: "c", v: v, alpha: alpha, pi: &Proof{GammaX: pi.GammaX, GammaY: pi.GammaY, C: new(big.Int).Add(pi.C, one), S: pi.S}},
		{desc: "s", v: v, alpha: alpha, pi: &Proof{GammaX: pi.GammaX, GammaY: pi.GammaY, C: pi.C, S: new(big.Int).Add(pi.S, one)}},
		{desc: "gamma negated", v: v, alpha: alpha, pi: &Proof{GammaX: nGx, GammaY: nGy, C: pi.C, S: pi.S}},
		{desc: "gamma off curve", v: v, alpha: alpha, pi: &Proof{GammaX: pi.GammaX, GammaY: new(big.Int).Add(pi.GammaY, one), C: pi.C, S: pi.S}},
		{desc: "c out of range", v: v, alpha: alpha, pi: &Proof{GammaX: pi.GammaX, GammaY: pi.GammaY, C: new(big.Int).Add(pi.C, curve.N), S: pi.S}},
		{desc: "missing s", v: v, alpha: alpha, pi: &Proof{GammaX: pi.GammaX, GammaY: pi.GammaY, C: pi.C}},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			if err := tc.v.Verify(tc.alpha, tc.pi); !errors.Is(err, ErrProofVerification) {
				t.Errorf("Verify(): %v, want %v", err, ErrProofVerification)
			}
		})
	}
}

func TestVerifyRejectsFlippedBytes(t *testing.T) {
	curve := starkcurve.Stark()
	v, sk := newEngine(t, curve, 190)
	alpha := []byte("sample")
	pi, err := v.Prove(sk, alpha)
	if err != nil {
		t.Fatalf("Prove(): %v", err)
	}
	valid := mustMarshal(t, curve, pi)

	for i := range valid {
		b := append([]byte(nil), valid...)
		b[i] ^= 0x01
		got, err := ParseProof(curve, b)
		if err != nil {
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("ParseProof(byte %d flipped): %v, want %v", i, err, ErrInvalidEncoding)
			}
			continue
		}
		if err := v.Verify(alpha, got); !errors.Is(err, ErrProofVerification) {
			t.Errorf("Verify(byte %d of proof flipped): %v, want %v", i, err, ErrProofVerification)
		}
	}

	for i := range alpha {
		a := append([]byte(nil), alpha...)
		a[i] ^= 0x01
		if err := v.Verify(a, pi); !errors.Is(err, ErrProofVerification) {
			t.Errorf("Verify(byte %d of alpha flipped): %v, want %v", i, err, ErrProofVerification)
		}
	}
}

func TestNewValidatesCurve(t *testing.T) {
	sk, err := NewKey(starkcurve.Stark(), big.NewInt(190))
	if err != nil {
		t.Fatal(err)
	}
	v, err := New(0x7a, sk.Public(), NewPedersenHash())
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if got, want := v.Suite(), byte(0x7a); got != want {
		t.Errorf("Suite(): %#x, want %#x", got, want)
	}

	bad := *toyCurve()
	bad.Gy = big.NewInt(11302)
	pub := &PublicKey{CurveParams: &bad, X: big.NewInt(4), Y: big.NewInt(11301)}
	if _, err := New(StarkPedersenSSWU, pub, NewPedersenHash()); !errors.Is(err, ErrCurveMapping) {
		t.Errorf("New(generator off curve): %v, want %v", err, ErrCurveMapping)
	}
}

func TestProveDeterministic(t *testing.T) {
	curve := starkcurve.Stark()
	v, sk := newEngine(t, curve, 12345)
	p1, err := v.Prove(sk, []byte("alpha"))
	if err != nil {
		t.Fatal(err)
	}
	p2, err := v.Prove(sk, []byte("alpha"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mustMarshal(t, curve, p1), mustMarshal(t, curve, p2)) {
		t.Errorf("Prove() is not deterministic")
	}
	p3, err := v.Prove(sk, []byte("alphb"))
	if err != nil {
		t.Fatal(err)
	}
	if p1.GammaX.Cmp(p3.GammaX) == 0 {
		t.Errorf("Prove(alpha) and Prove(alphb) share gamma")
	}
}

func TestNonceVariesWithAlpha(t *testing.T) {
	curve := starkcurve.Stark()
	v, sk := newEngine(t, curve, 190)
	seen := make(map[string]string)
	for _, alpha := range []string{"", "a", "b", "test", "tesu"} {
		Hx, Hy, err := v.hashToCurve([]byte(alpha))
		if err != nil {
			t.Fatalf("hashToCurve(%q): %v", alpha, err)
		}
		k, err := v.Nonce(sk, curve.MarshalCompressed(Hx, Hy))
		if err != nil {
			t.Fatalf("Nonce(%q): %v", alpha, err)
		}
		if k.Sign() == 0 {
			t.Errorf("Nonce(%q) = 0", alpha)
		}
		if prev, ok := seen[k.String()]; ok {
			t.Errorf("Nonce(%q) == Nonce(%q)", alpha, prev)
		}
		seen[k.String()] = alpha
	}
}

// hasPrefixSuffix matches byte strings with the given prefix and suffix.
type hasPrefixSuffix struct {
	prefix, suffix []byte
	n              int
}

func (m hasPrefixSuffix) Matches(x interface{}) bool {
	b, ok := x.([]byte)
	return ok && len(b) == m.n && bytes.HasPrefix(b, m.prefix) && bytes.HasSuffix(b, m.suffix)
}

func (m hasPrefixSuffix) String() string {
	return fmt.Sprintf("has prefix %x and suffix %x, len %d", m.prefix, m.suffix, m.n)
}

func TestDomainSeparation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	hasher := mock_vrf.NewMockHashToField(ctrl)

	curve := toyCurve()
	sk, err := NewKey(curve, big.NewInt(190))
	if err != nil {
		t.Fatal(err)
	}
	const suite = 0x7a
	v, err := New(suite, sk.Public(), hasher)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	alpha := []byte("alpha")
	pk := curve.MarshalCompressed(sk.X, sk.Y)

	t0 := big.NewInt(5)
	Hx, Hy, err := v.mapper.Map(t0)
	if err != nil {
		t.Fatalf("Map(5): %v", err)
	}
	H := curve.MarshalCompressed(Hx, Hy)
	Gx, Gy := curve.ScalarMult(Hx, Hy, big.NewInt(190).Bytes())
	Gamma := curve.MarshalCompressed(Gx, Gy)

	ptLen := curve.PointLen()
	gomock.InOrder(
		hasher.EXPECT().Hash(append([]byte{suite, 0x01}, append(pk, alpha...)...)).
			Return(new(big.Int).Add(t0, curve.P), nil),
		hasher.EXPECT().Hash(append(curve.MarshalScalar(big.NewInt(190)), H...)).
			Return(big.NewInt(7), nil),
		hasher.EXPECT().Hash(hasPrefixSuffix{
			prefix: append(append(append([]byte{suite, 0x02}, pk...), H...), Gamma...),
			suffix: []byte{0x00},
			n:      2 + 5*ptLen + 1,
		}).Return(new(big.Int).Add(big.NewInt(11), curve.N), nil),
	)

	pi, err := v.Prove(sk, alpha)
	if err != nil {
		t.Fatalf("Prove(): %v", err)
	}
	if got, want := pi.C.Int64(), int64(11); got != want {
		t.Errorf("c: %v, want %v", got, want)
	}
	if got, want := pi.S.Int64(), int64(7+11*190); got != want {
		t.Errorf("s: %v, want %v", got, want)
	}

	hasher.EXPECT().Hash(append(append([]byte{suite, 0x03}, Gamma...), 0x00)).Return(big.NewInt(1234), nil)
	beta, err := v.ProofToHash(pi)
	if err != nil {
		t.Fatalf("ProofToHash(): %v", err)
	}
	if got, want := beta.Int64(), int64(1234); got != want {
		t.Errorf("beta: %v, want %v", got, want)
	}
}

func TestHasherErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	hasher := mock_vrf.NewMockHashToField(ctrl)
	errHash := errors.New("hash failed")
	hasher.EXPECT().Hash(gomock.Any()).Return(nil, errHash).Times(2)

	sk, err := NewKey(toyCurve(), big.NewInt(190))
	if err != nil {
		t.Fatal(err)
	}
	v, err := New(StarkPedersenSSWU, sk.Public(), hasher)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	if _, err := v.Prove(sk, []byte("alpha")); !errors.Is(err, errHash) {
		t.Errorf("Prove(): %v, want %v", err, errHash)
	}
	pi := &Proof{GammaX: sk.X, GammaY: sk.Y, C: big.NewInt(1), S: big.NewInt(1)}
	if _, err := v.ProofToHash(pi); !errors.Is(err, errHash) {
		t.Errorf("ProofToHash(): %v, want %v", err, errHash)
	}
}

func TestProofToHashRejectsOffCurve(t *testing.T) {
	v, sk := newEngine(t, starkcurve.Stark(), 190)
	pi := &Proof{GammaX: sk.X, GammaY: new(big.Int).Add(sk.Y, big.NewInt(1)), C: big.NewInt(1), S: big.NewInt(1)}
	if _, err := v.ProofToHash(pi); !errors.Is(err, ErrProofVerification) {
		t.Errorf("ProofToHash(): %v, want %v", err, ErrProofVerification)
	}
}

func TestNewRejectsUnmappableCurve(t *testing.T) {
	curve := *toyCurve()
	curve.Zeta = big.NewInt(4)
	sk, err := NewKey(&curve, big.NewInt(190))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(StarkPedersenSSWU, sk.Public(), NewPedersenHash()); !errors.Is(err, ErrCurveMapping) {
		t.Errorf("New(): %v, want %v", err, ErrCurveMapping)
	}
}

func TestConcurrentProve(t *testing.T) {
	curve := starkcurve.Stark()
	v, sk := newEngine(t, curve, 190)
	pi, err := v.Prove(sk, []byte("test"))
	if err != nil {
		t.Fatal(err)
	}
	want := mustMarshal(t, curve, pi)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			pi, err := v.Prove(sk, []byte("test"))
			if err != nil {
				return err
			}
			got, err := pi.Marshal(curve)
			if err != nil {
				return err
			}
			if !bytes.Equal(got, want) {
				return fmt.Errorf("proof %x, want %x", got, want)
			}
			return v.Verify([]byte("test"), pi)
		})
	}
	if err := g.Wait(); err != nil {
		t.Errorf("concurrent Prove(): %v", err)
	}
}
