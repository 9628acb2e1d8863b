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

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/golang/glog"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
	"github.com/starkvrf/stark-vrf/core/crypto/vrf"
)

var (
	proveKey    string
	proveSecret string
	alphaHex    bool
	pubKeyHex   string
	proofHex    string
)

// parseAlpha returns the VRF input given on the command line.
func parseAlpha(arg string, isHex bool) ([]byte, error) {
	if !isHex {
		return []byte(arg), nil
	}
	return hex.DecodeString(arg)
}

// parseProofArgs decodes --pubkey and --proof.
func parseProofArgs() (*vrf.PublicKey, *vrf.Proof, error) {
	curve := starkcurve.Stark()
	b, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return nil, nil, fmt.Errorf("--pubkey: %v", err)
	}
	pub, err := vrf.ParsePublicKey(curve, b)
	if err != nil {
		return nil, nil, fmt.Errorf("--pubkey: %w", err)
	}
	b, err = hex.DecodeString(proofHex)
	if err != nil {
		return nil, nil, fmt.Errorf("--proof: %v", err)
	}
	pi, err := vrf.ParseProof(curve, b)
	if err != nil {
		return nil, nil, fmt.Errorf("--proof: %w", err)
	}
	return pub, pi, nil
}

// proveCmd proves an input.
var proveCmd = &cobra.Command{
	Use:   "prove ALPHA",
	Short: "Proves the VRF output for ALPHA",
	Long: `Proves the VRF output for ALPHA with a stored key or an explicit
secret scalar, and prints the proof and the output beta:

./starkvrf prove --key alice test
./starkvrf prove --secret 190 test
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alpha, err := parseAlpha(args[0], alphaHex)
		if err != nil {
			return err
		}
		sk, err := loadKey(proveSecret, proveKey)
		if err != nil {
			return err
		}
		v, err := engine(sk.Public())
		if err != nil {
			return err
		}
		pi, err := v.Prove(sk, alpha)
		if err != nil {
			return err
		}
		glog.V(1).Infof("proof: %# v", pretty.Formatter(pi))
		beta, err := v.ProofToHash(pi)
		if err != nil {
			return err
		}
		proof, err := pi.Marshal(starkcurve.Stark())
		if err != nil {
			return err
		}
		fmt.Printf("suite:      %#x\n", v.Suite())
		fmt.Printf("public key: %x\n", sk.Public().Bytes())
		fmt.Printf("proof:      %x\n", proof)
		fmt.Printf("beta:       %#x\n", beta)
		return nil
	},
}

// verifyCmd verifies a proof.
var verifyCmd = &cobra.Command{
	Use:   "verify ALPHA",
	Short: "Verifies a proof for ALPHA",
	Long: `Verifies a proof for ALPHA under a public key and prints the output beta:

./starkvrf verify --pubkey HEX --proof HEX test
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alpha, err := parseAlpha(args[0], alphaHex)
		if err != nil {
			return err
		}
		pub, pi, err := parseProofArgs()
		if err != nil {
			return err
		}
		v, err := engine(pub)
		if err != nil {
			return err
		}
		if err := v.Verify(alpha, pi); err != nil {
			return err
		}
		beta, err := v.ProofToHash(pi)
		if err != nil {
			return err
		}
		fmt.Printf("valid, beta: %#x\n", beta)
		return nil
	},
}

// hashCmd computes the output of a proof without verifying it.
var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Prints the output beta of a proof",
	Long: `Prints the output beta of a proof. The proof is not verified; use
verify for proofs from untrusted sources.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, pi, err := parseProofArgs()
		if err != nil {
			return err
		}
		v, err := engine(pub)
		if err != nil {
			return err
		}
		beta, err := v.ProofToHash(pi)
		if err != nil {
			return err
		}
		fmt.Printf("%#x\n", beta)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(proveCmd)
	RootCmd.AddCommand(verifyCmd)
	RootCmd.AddCommand(hashCmd)

	proveCmd.Flags().StringVar(&proveKey, "key", "", "Name of a stored key")
	proveCmd.Flags().StringVar(&proveSecret, "secret", "", "Secret scalar, decimal or 0x prefixed hex")
	for _, c := range []*cobra.Command{proveCmd, verifyCmd} {
		c.Flags().BoolVar(&alphaHex, "hex", false, "ALPHA is hex encoded")
	}
	for _, c := range []*cobra.Command{verifyCmd, hashCmd} {
		c.Flags().StringVar(&pubKeyHex, "pubkey", "", "Hex encoded compressed public key")
		c.Flags().StringVar(&proofHex, "proof", "", "Hex encoded proof")
	}
}
