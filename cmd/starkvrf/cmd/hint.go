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
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/spf13/cobra"

	"github.com/starkvrf/stark-vrf/core/hint"
)

var hintSecret string

// parseFelts parses decimal or 0x prefixed hex field elements.
func parseFelts(args []string) ([]fp.Element, error) {
	felts := make([]fp.Element, len(args))
	for i, a := range args {
		v, err := parseScalar(a)
		if err != nil {
			return nil, err
		}
		if v.Sign() < 0 || v.Cmp(fp.Modulus()) >= 0 {
			return nil, fmt.Errorf("felt %v out of range", a)
		}
		felts[i].SetBigInt(v)
	}
	return felts, nil
}

// hintCmd runs a VM hint.
var hintCmd = &cobra.Command{
	Use:   "hint SELECTOR [FELT...]",
	Short: "Runs a Cairo VM hint",
	Long: `Runs the vrf or sqrt_ratio hint on the given field elements and prints
the result, one felt per line:

./starkvrf hint vrf 1 2 3
./starkvrf hint sqrt_ratio 4 1 3
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := big.NewInt(hint.DefaultSecret)
		if hintSecret != "" {
			var err error
			if secret, err = parseScalar(hintSecret); err != nil {
				return err
			}
		}
		p, err := hint.New(secret)
		if err != nil {
			return err
		}
		if !p.MatchesSelector(args[0]) {
			return fmt.Errorf("%w: %q", hint.ErrUnknownSelector, args[0])
		}
		input, err := parseFelts(args[1:])
		if err != nil {
			return err
		}
		out, err := p.Execute(args[0], input)
		if err != nil {
			return err
		}
		for i := range out {
			fmt.Printf("0x%s\n", out[i].Text(16))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(hintCmd)
	hintCmd.Flags().StringVar(&hintSecret, "secret", "", "Secret scalar, decimal or 0x prefixed hex (default 42)")
}
