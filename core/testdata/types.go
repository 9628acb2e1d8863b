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

// Package testdata contains data and data types for interoperability testing.
package testdata

// ECVRFStarkPedersenSSWU names the vector file for the STARK Pedersen SSWU suite.
const ECVRFStarkPedersenSSWU = "ecvrf_stark_pedersen_sswu"

// Vector is a proof that should verify without errors. Byte strings are hex
// encoded; SecretKey and the scalars in Proof are little-endian, Beta is
// big-endian.
type Vector struct {
	Desc      string
	SecretKey string
	PublicKey string
	Alpha     string
	Proof     string
	Beta      string
}
