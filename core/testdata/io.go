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

package testdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ReadVectors returns the test vectors in dir for the requested test name.
func ReadVectors(dir, testName string) ([]Vector, error) {
	b, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("%v.json", testName)))
	if err != nil {
		return nil, err
	}
	var vs []Vector
	if err := json.Unmarshal(b, &vs); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(): %v", err)
	}
	return vs, nil
}

// WriteVectors saves the test vectors for testName in dir.
func WriteVectors(dir, testName string, vs []Vector) error {
	out, err := json.MarshalIndent(vs, "", "\t")
	if err != nil {
		return fmt.Errorf("json.Marshal(): %v", err)
	}
	testFile := filepath.Join(dir, fmt.Sprintf("%v.json", testName))
	if err := os.WriteFile(testFile, append(out, '\n'), 0666); err != nil {
		return fmt.Errorf("WriteFile(%v): %v", testFile, err)
	}
	return nil
}
