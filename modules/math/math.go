/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package math is a native module exposing numeric constants.
package math

import (
	stdmath "math"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/engine/cueval"
	"dirpx.dev/mload/registry"
)

// Name is the module name.
const Name = "math"

func init() {
	registry.MustRegister(Name, Init)
}

// Constants is the module value before encoding.
type Constants struct {
	Pi       float64 `json:"pi"`
	E        float64 `json:"e"`
	Phi      float64 `json:"phi"`
	Sqrt2    float64 `json:"sqrt2"`
	Ln2      float64 `json:"ln2"`
	MaxInt64 int64   `json:"maxInt64"`
	MinInt64 int64   `json:"minInt64"`
}

// Values returns the constants exported by the module.
func Values() Constants {
	return Constants{
		Pi:       stdmath.Pi,
		E:        stdmath.E,
		Phi:      stdmath.Phi,
		Sqrt2:    stdmath.Sqrt2,
		Ln2:      stdmath.Ln2,
		MaxInt64: stdmath.MaxInt64,
		MinInt64: stdmath.MinInt64,
	}
}

// Init builds the module value on the shared CUE engine.
func Init() apis.Value {
	return cueval.Shared().Encode(Values())
}
