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

// Package runtime is a native module describing the host process.
package runtime

import (
	stdruntime "runtime"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/engine/cueval"
	"dirpx.dev/mload/registry"
)

// Name is the module name.
const Name = "runtime"

func init() {
	registry.MustRegister(Name, Init)
}

// Info is the module value before encoding.
type Info struct {
	GOOS    string `json:"goos"`
	GOARCH  string `json:"goarch"`
	Version string `json:"version"`
	NumCPU  int    `json:"numCPU"`
}

// Current returns the description of the running process.
func Current() Info {
	return Info{
		GOOS:    stdruntime.GOOS,
		GOARCH:  stdruntime.GOARCH,
		Version: stdruntime.Version(),
		NumCPU:  stdruntime.NumCPU(),
	}
}

// Init builds the module value on the shared CUE engine.
func Init() apis.Value {
	return cueval.Shared().Encode(Current())
}
