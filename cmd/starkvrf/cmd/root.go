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
	"context"
	"database/sql"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starkvrf/stark-vrf/core/crypto/starkcurve"
	"github.com/starkvrf/stark-vrf/core/crypto/vrf"
	"github.com/starkvrf/stark-vrf/impl/sql/vrfkeys"

	sqlutil "github.com/starkvrf/stark-vrf/impl/sql"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "starkvrf",
	Short: "A verifiable random function over the STARK curve",
	Long: `starkvrf proves and verifies outputs of ECVRF-STARK-PEDERSEN-SSWU, a
verifiable random function over the STARK curve that hashes with the Starknet
Pedersen hash. Keys can be kept in a local sqlite or a MySQL database.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer glog.Flush()
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.starkvrf.yaml)")

	RootCmd.PersistentFlags().String("db-driver", sqlutil.DriverSQLite, "Key store driver, sqlite3 or mysql")
	RootCmd.PersistentFlags().String("db-dsn", "starkvrf.db", "Key store data source name")
	RootCmd.PersistentFlags().Uint8("suite", vrf.StarkPedersenSSWU, "ECVRF suite string")

	// Global flags for use by subcommands.
	RootCmd.PersistentFlags().DurationP("timeout", "t", 15*time.Second, "Time to wait before operations timeout")
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		glog.Exitf("%v", err)
	}
	// glog flags.
	RootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// initConfig reads in config file and ENV variables if set.
// initConfig is run during a command's preRun().
func initConfig() {
	viper.SetEnvPrefix("starkvrf")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match.

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			glog.Exitf("Failed reading config file: %v: %v", viper.ConfigFileUsed(), err)
		}
	} else {
		viper.SetConfigName(".starkvrf")
		viper.AddConfigPath("$HOME")
		if err := viper.ReadInConfig(); err == nil {
			glog.V(1).Infof("Using config file: %v", viper.ConfigFileUsed())
		}
	}
}

func timeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
}

// openStore opens the key store configured by --db-driver and --db-dsn.
func openStore() (*vrfkeys.Storage, *sql.DB, error) {
	driver := viper.GetString("db-driver")
	dsn := viper.GetString("db-dsn")
	db, err := sqlutil.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %v key store: %v", driver, err)
	}
	store, err := vrfkeys.New(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// engine returns the VRF for pub with the configured suite string.
func engine(pub *vrf.PublicKey) (*vrf.ECVRF, error) {
	suite := byte(viper.GetUint("suite"))
	return vrf.New(suite, pub, vrf.NewPedersenHash())
}

// parseScalar parses a decimal or 0x prefixed hexadecimal integer.
func parseScalar(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return x, nil
}

// loadKey returns the secret key given by --secret, or else the key stored
// under --key.
func loadKey(secret, name string) (*vrf.PrivateKey, error) {
	switch {
	case secret != "":
		x, err := parseScalar(secret)
		if err != nil {
			return nil, err
		}
		return vrf.NewKey(starkcurve.Stark(), x)
	case name != "":
		store, db, err := openStore()
		if err != nil {
			return nil, err
		}
		defer db.Close()
		ctx, cancel := timeoutContext()
		defer cancel()
		sk, suite, err := store.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		if want := byte(viper.GetUint("suite")); suite != want {
			return nil, fmt.Errorf("key %q is for suite %#x, not %#x", name, suite, want)
		}
		return sk, nil
	default:
		return nil, fmt.Errorf("one of --secret or --key is required")
	}
}
