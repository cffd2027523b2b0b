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

// Package env is a native module exposing the process environment.
// The environment is captured when the module is first resolved; later
// changes are not observed through the cached value.
package env

import (
	"os"
	"strings"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/engine/cueval"
	"dirpx.dev/mload/registry"
)

// Name is the module name.
const Name = "env"

func init() {
	registry.MustRegister(Name, Init)
}

// Snapshot parses environ entries of the form KEY=VALUE. Entries without
// a key are skipped and later duplicates win, as with os.Getenv.
func Snapshot(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Init builds the module value on the shared CUE engine.
func Init() apis.Value {
	return cueval.Shared().Encode(Snapshot(os.Environ()))
}
