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

// Package handle is a reference-counted host engine.
//
// Values are *Handle pointers carrying an arbitrary payload or an error.
// Every Dup and Free is accounted for, which makes the engine useful for
// embedding hosts that need explicit ownership and for verifying that the
// resolution layers neither leak nor over-release values.
package handle

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"unicode/utf8"

	"dirpx.dev/mload/apis"
)

var (
	// ErrDoubleFree is the panic value raised when a handle is released
	// more times than it was acquired.
	ErrDoubleFree = errors.New("mload(handle): handle released too many times")
	// ErrInvalidSource is carried by values produced from non UTF-8 source.
	ErrInvalidSource = errors.New("mload(handle): source is not valid UTF-8")
)

// Handle is a reference-counted engine value.
type Handle struct {
	id      uint64
	payload any
	err     error
	refs    atomic.Int64
}

// ID returns the engine-unique identifier of h.
func (h *Handle) ID() uint64 { return h.id }

// Payload returns the wrapped payload. It is nil for error handles.
func (h *Handle) Payload() any { return h.payload }

// Err returns the carried error, or nil.
func (h *Handle) Err() error { return h.err }

// Refs returns the number of outstanding references.
func (h *Handle) Refs() int64 { return h.refs.Load() }

// String implements fmt.Stringer.
func (h *Handle) String() string {
	if h.err != nil {
		return fmt.Sprintf("handle#%d(error: %v)", h.id, h.err)
	}
	return fmt.Sprintf("handle#%d(%v)", h.id, h.payload)
}

// Engine creates and accounts for handles.
type Engine struct {
	next atomic.Uint64
	live atomic.Int64
}

// New returns an engine with no live references.
func New() *Engine {
	return &Engine{}
}

// Ensure Engine implements the engine contracts.
var (
	_ apis.EvalEngine = (*Engine)(nil)
	_ apis.Encoder    = (*Engine)(nil)
)

// Wrap returns a new handle for payload holding one reference.
func (e *Engine) Wrap(payload any) *Handle {
	return e.alloc(payload, nil)
}

// Live returns the number of references not yet released across all handles.
func (e *Engine) Live() int64 {
	return e.live.Load()
}

// IsError reports whether v carries an error.
func (e *Engine) IsError(v apis.Value) bool {
	return mustHandle(v).err != nil
}

// Dup acquires one more reference to v.
func (e *Engine) Dup(v apis.Value) apis.Value {
	h := mustHandle(v)
	h.refs.Add(1)
	e.live.Add(1)
	return h
}

// Free releases one reference to v. It panics with ErrDoubleFree when the
// count would drop below zero.
func (e *Engine) Free(v apis.Value) {
	h := mustHandle(v)
	if h.refs.Add(-1) < 0 {
		h.refs.Add(1)
		panic(fmt.Errorf("%w: %s", ErrDoubleFree, h))
	}
	e.live.Add(-1)
}

// MakeError returns a new error handle carrying err.
func (e *Engine) MakeError(err error) apis.Value {
	return e.alloc(nil, err)
}

// Err returns the error carried by v.
func (e *Engine) Err(v apis.Value) error {
	return mustHandle(v).err
}

// Eval wraps src as a string payload. Source that is not valid UTF-8
// evaluates to an error handle.
func (e *Engine) Eval(src []byte, filename string) apis.Value {
	if !utf8.Valid(src) {
		return e.MakeError(fmt.Errorf("%s: %w", filename, ErrInvalidSource))
	}
	return e.Wrap(string(src))
}

// EncodeJSON renders the payload of v.
func (e *Engine) EncodeJSON(v apis.Value) ([]byte, error) {
	h := mustHandle(v)
	if h.err != nil {
		return nil, h.err
	}
	return json.Marshal(h.payload)
}

func (e *Engine) alloc(payload any, err error) *Handle {
	h := &Handle{id: e.next.Add(1), payload: payload, err: err}
	h.refs.Store(1)
	e.live.Add(1)
	return h
}

func mustHandle(v apis.Value) *Handle {
	h, ok := v.(*Handle)
	if !ok || h == nil {
		panic(fmt.Sprintf("mload(handle): foreign value %T", v))
	}
	return h
}
