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

package apis

// Resolver is a pluggable resolution step. The Runner consults resolvers
// in the order supplied by the caller.
//
// Resolve returns (value, true) when the resolver claims name. The value
// may itself be error-flagged; a claim ends the chain either way.
// It returns (nil, false) to fall through to the next resolver.
//
// Resolvers must not touch the resolution cache.
type Resolver interface {
	Resolve(name string) (Value, bool)
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(name string) (Value, bool)

// Resolve calls f(name).
func (f ResolverFunc) Resolve(name string) (Value, bool) {
	return f(name)
}

// Ensure ResolverFunc implements Resolver.
var _ Resolver = ResolverFunc(nil)
