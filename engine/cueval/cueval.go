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

// Package cueval adapts CUE to the mload engine contract.
//
// Module values are cue.Value. A value is an error value when Err reports
// one, error values are built with cue.Context.Encode, and Dup/Free are
// no-ops because CUE values are immutable and garbage collected.
//
// All operations on one Engine share a single cue.Context and are
// serialized by a mutex.
package cueval

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"dirpx.dev/mload/apis"
)

// Name is the engine name accepted by configuration.
const Name = "cue"

var shared = sync.OnceValue(New)

// Shared returns the process-wide engine. Compiled-in modules build their
// values with it so they can be unified with files evaluated by it.
func Shared() *Engine {
	return shared()
}

// Engine is a CUE-backed host engine.
type Engine struct {
	mu  sync.Mutex
	ctx *cue.Context
}

// New creates an engine with its own CUE context.
func New() *Engine {
	return &Engine{ctx: cuecontext.New()}
}

// Ensure Engine implements the engine contracts.
var (
	_ apis.EvalEngine = (*Engine)(nil)
	_ apis.Encoder    = (*Engine)(nil)
)

// Context returns the underlying CUE context.
func (e *Engine) Context() *cue.Context {
	return e.ctx
}

// IsError reports whether v is bottom.
func (e *Engine) IsError(v apis.Value) bool {
	return e.Err(v) != nil
}

// Dup returns v unchanged.
func (e *Engine) Dup(v apis.Value) apis.Value { return v }

// Free does nothing.
func (e *Engine) Free(apis.Value) {}

// MakeError encodes err as a CUE error value.
func (e *Engine) MakeError(err error) apis.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Encode(err)
}

// Err returns the CUE error carried by v.
func (e *Engine) Err(v apis.Value) error {
	cv := mustValue(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	return cv.Err()
}

// Eval compiles src as a CUE file and validates the result.
// Compilation and validation failures produce error values whose message
// starts with filename.
func (e *Engine) Eval(src []byte, filename string) apis.Value {
	e.mu.Lock()
	defer e.mu.Unlock()

	val := e.ctx.CompileBytes(src, cue.Filename(filename))
	if err := val.Err(); err != nil {
		return e.ctx.Encode(fmt.Errorf("%s: %w", filename, err))
	}
	if err := val.Validate(); err != nil {
		return e.ctx.Encode(fmt.Errorf("%s: validation failed: %w", filename, err))
	}
	return val
}

// Compile compiles inline CUE source. It is meant for compiled-in modules.
func (e *Engine) Compile(src string) apis.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.CompileString(src)
}

// Encode converts a Go value into a CUE value.
func (e *Engine) Encode(x any) apis.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Encode(x)
}

// EncodeJSON renders v as JSON.
func (e *Engine) EncodeJSON(v apis.Value) ([]byte, error) {
	cv := mustValue(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	return cv.MarshalJSON()
}

func mustValue(v apis.Value) cue.Value {
	cv, ok := v.(cue.Value)
	if !ok {
		panic(fmt.Sprintf("mload(cueval): foreign value %T", v))
	}
	return cv
}
