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

// Value is an opaque module value owned by a host Engine.
// The resolution core never inspects it; it only moves it between
// resolvers, the cache and callers through the Engine.
type Value any

// Engine is the host script engine as seen by module resolution.
//
// Ownership follows acquire/release semantics: a Value handed to a caller
// carries one reference that the caller must eventually Free. Engines whose
// values are immutable (CUE, cty) may implement Dup and Free as no-ops.
type Engine interface {
	// IsError reports whether v is an error-flagged value.
	IsError(v Value) bool
	// Dup acquires an additional reference to v and returns it.
	Dup(v Value) Value
	// Free releases one reference to v.
	Free(v Value)
	// MakeError builds an error-flagged value carrying err.
	MakeError(err error) Value
	// Err extracts the error carried by v, or nil if v is not an error value.
	Err(v Value) error
}

// Evaluator turns module source into a Value.
// Evaluation failures are reported as error-flagged values, never panics.
type Evaluator interface {
	Eval(src []byte, filename string) Value
}

// EvalEngine is an Engine that can also evaluate source.
type EvalEngine interface {
	Engine
	Evaluator
}

// Encoder renders a non-error Value as JSON for display.
type Encoder interface {
	EncodeJSON(v Value) ([]byte, error)
}
