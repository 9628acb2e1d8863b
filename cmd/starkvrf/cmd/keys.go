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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
	"github.com/starkvrf/stark-vrf/core/crypto/vrf"
)

var (
	keyName  string
	showKeys bool
)

// keysCmd represents the keys command.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage VRF keys",
	Long:  `Generate, list and delete the VRF keys held in the key store.`,
}

// generateCmd creates a new key pair.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a new key pair",
	Long: `Generates a new key pair and prints its public key. With --name the
key is saved in the key store:

./starkvrf keys generate --name alice
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sk, err := vrf.GenerateKey(starkcurve.Stark(), nil)
		if err != nil {
			return err
		}
		if keyName == "" {
			fmt.Printf("secret key: %x\n", sk.Bytes())
			fmt.Printf("public key: %x\n", sk.Public().Bytes())
			return nil
		}

		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		ctx, cancel := timeoutContext()
		defer cancel()
		if err := store.Set(ctx, keyName, byte(viper.GetUint("suite")), sk); err != nil {
			return err
		}
		fmt.Printf("%v: %x\n", keyName, sk.Public().Bytes())
		return nil
	},
}

// listCmd lists the stored keys.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys",
	Long: `List the names, suites and public keys of all stored keys. Secret
keys are only printed with --secrets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		ctx, cancel := timeoutContext()
		defer cancel()
		names, err := store.List(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.Debug)
		fmt.Fprintln(w, "  Name\tSuite\tPublic Key")
		for _, name := range names {
			sk, suite, err := store.Get(ctx, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %v\t%#x\t%x\t\n", name, suite, sk.Public().Bytes())
			if showKeys {
				fmt.Fprintf(w, "  \t\t%v\t\n", hex.EncodeToString(sk.Bytes()))
			}
		}
		return w.Flush()
	},
}

// deleteCmd removes a stored key.
var deleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		ctx, cancel := timeoutContext()
		defer cancel()
		return store.Delete(ctx, args[0])
	},
}

func init() {
	RootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(generateCmd)
	keysCmd.AddCommand(listCmd)
	keysCmd.AddCommand(deleteCmd)

	generateCmd.Flags().StringVar(&keyName, "name", "", "Save the key in the key store under this name")
	listCmd.Flags().BoolVar(&showKeys, "secrets", false, "Also print secret keys")
}
