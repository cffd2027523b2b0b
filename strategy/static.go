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
	"maps"

	"dirpx.dev/mload/apis"
)

// NewStatic creates an apis.Resolver that claims exactly the names in
// modules. The map is copied; later changes to it are not observed.
func NewStatic(modules map[string]apis.InitFunc) apis.Resolver {
	return &staticStrategy{modules: maps.Clone(modules)}
}

// staticStrategy is a map-backed resolver for hosts that cannot rely on
// init-time registration.
type staticStrategy struct {
	modules map[string]apis.InitFunc
}

// Ensure staticStrategy implements apis.Resolver.
var _ apis.Resolver = (*staticStrategy)(nil)

// Resolve runs the initializer mapped to name.
func (s *staticStrategy) Resolve(name string) (apis.Value, bool) {
	initFn, ok := s.modules[name]
	if !ok || initFn == nil {
		return nil, false
	}
	return initFn(), true
}
