// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package suite provides access to the golden conversion examples
// carried over from the original octomark test corpus.
package suite

import (
	_ "embed"
	"encoding/json"
)

// Case is a single golden conversion example.
type Case struct {
	Name       string
	Markdown   string
	HTML       string
	EnableHTML bool
}

//go:embed golden.json
var goldenData []byte

// Load returns the golden conversion examples.
func Load() ([]Case, error) {
	var cases []Case
	if err := json.Unmarshal(goldenData, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}
