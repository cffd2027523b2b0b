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

// Package hclval adapts HCL to the mload engine contract.
//
// A module file is a flat HCL body of attributes. Evaluating it yields an
// object whose attributes are the evaluated expressions. Expressions may
// call a small set of cty standard library functions and reference the
// variables the engine was built with.
package hclval

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"dirpx.dev/mload/apis"
)

// Name is the engine name accepted by configuration.
const Name = "hcl"

// Value is the module value produced by the engine.
type Value struct {
	// Val is the evaluated object. It is cty.DynamicVal for error values.
	Val cty.Value
	// Diags holds every diagnostic produced during evaluation.
	Diags hcl.Diagnostics

	err error
}

// Err returns the error carried by v, or nil.
func (v Value) Err() error {
	if v.err != nil {
		return v.err
	}
	if v.Diags.HasErrors() {
		return v.Diags
	}
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithVariable exposes val to module expressions under name.
func WithVariable(name string, val cty.Value) Option {
	return func(e *Engine) {
		e.vars[name] = val
	}
}

// WithFunction exposes fn to module expressions under name.
func WithFunction(name string, fn function.Function) Option {
	return func(e *Engine) {
		e.funcs[name] = fn
	}
}

// Engine is an HCL-backed host engine. It is safe for concurrent use once
// constructed.
type Engine struct {
	vars  map[string]cty.Value
	funcs map[string]function.Function
}

// New creates an engine with the default function set.
func New(opts ...Option) *Engine {
	e := &Engine{
		vars: map[string]cty.Value{},
		funcs: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
			"length": stdlib.LengthFunc,
			"lower":  stdlib.LowerFunc,
			"max":    stdlib.MaxFunc,
			"min":    stdlib.MinFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ensure Engine implements the engine contracts.
var (
	_ apis.EvalEngine = (*Engine)(nil)
	_ apis.Encoder    = (*Engine)(nil)
)

// Functions returns a copy of the functions available to expressions.
func (e *Engine) Functions() map[string]function.Function {
	out := make(map[string]function.Function, len(e.funcs))
	for k, v := range e.funcs {
		out[k] = v
	}
	return out
}

// IsError reports whether v carries an error.
func (e *Engine) IsError(v apis.Value) bool {
	return mustValue(v).Err() != nil
}

// Dup returns v unchanged.
func (e *Engine) Dup(v apis.Value) apis.Value { return v }

// Free does nothing.
func (e *Engine) Free(apis.Value) {}

// MakeError wraps err in an error value.
func (e *Engine) MakeError(err error) apis.Value {
	return Value{
		Val: cty.DynamicVal,
		Diags: hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  err.Error(),
		}},
		err: err,
	}
}

// Err returns the error carried by v.
func (e *Engine) Err(v apis.Value) error {
	return mustValue(v).Err()
}

// Eval parses src as native HCL syntax and evaluates its attributes.
func (e *Engine) Eval(src []byte, filename string) apis.Value {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return Value{Val: cty.DynamicVal, Diags: diags}
	}

	attrs, moreDiags := file.Body.JustAttributes()
	diags = append(diags, moreDiags...)
	if diags.HasErrors() {
		return Value{Val: cty.DynamicVal, Diags: diags}
	}

	evalCtx := &hcl.EvalContext{
		Variables: e.vars,
		Functions: e.funcs,
	}
	obj := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(evalCtx)
		diags = append(diags, valDiags...)
		obj[name] = val
	}
	if diags.HasErrors() {
		return Value{Val: cty.DynamicVal, Diags: diags}
	}
	return Value{Val: cty.ObjectVal(obj), Diags: diags}
}

// EncodeJSON renders v as JSON.
func (e *Engine) EncodeJSON(v apis.Value) ([]byte, error) {
	hv := mustValue(v)
	if err := hv.Err(); err != nil {
		return nil, err
	}
	return ctyjson.Marshal(hv.Val, hv.Val.Type())
}

func mustValue(v apis.Value) Value {
	hv, ok := v.(Value)
	if !ok {
		panic(fmt.Sprintf("mload(hclval): foreign value %T", v))
	}
	return hv
}
