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

package strategy

import (
	"dirpx.dev/mload/apis"
)

// NewNative creates an apis.Resolver backed by a native module registry.
// A nil registry, including a typed nil *registry.Registry, claims nothing.
func NewNative(reg apis.NativeRegistry) apis.Resolver {
	return &nativeStrategy{reg: reg}
}

// nativeStrategy claims names registered as compiled-in modules.
type nativeStrategy struct {
	reg apis.NativeRegistry
}

// Ensure nativeStrategy implements apis.Resolver.
var _ apis.Resolver = (*nativeStrategy)(nil)

// Resolve runs the initializer registered under name.
func (s *nativeStrategy) Resolve(name string) (apis.Value, bool) {
	if s.reg == nil {
		return nil, false
	}
	return s.reg.Resolve(name)
}
