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

package resolver_test

import (
	"errors"
	"strings"
	"testing"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/cache"
	"dirpx.dev/mload/engine/cueval"
	"dirpx.dev/mload/resolver"
)

// The CUE engine keeps only the message of a Go error, so these checks
// make sure ResolveErr does not depend on the engine for not-found.

func TestResolveErr_NotFoundWithMessageOnlyEngine(t *testing.T) {
	eng := cueval.New()
	r := resolver.New(eng, cache.New(eng))
	miss := apis.ResolverFunc(func(string) (apis.Value, bool) { return nil, false })

	v, err := r.ResolveErr("no-such-module", miss)
	if v != nil {
		t.Fatalf("ResolveErr returned value %v, want nil", v)
	}
	if !errors.Is(err, resolver.ErrModuleNotFound) {
		t.Fatalf("ResolveErr error = %v, want ErrModuleNotFound", err)
	}
	var nf *resolver.NotFoundError
	if !errors.As(err, &nf) || nf.Name != "no-such-module" {
		t.Fatalf("ResolveErr error = %#v, want *NotFoundError for no-such-module", err)
	}

	// The value form still carries the message.
	ev := r.Resolve("no-such-module", miss)
	if !eng.IsError(ev) {
		t.Fatal("Resolve did not return an error value")
	}
	if got := eng.Err(ev).Error(); !strings.Contains(got, `module "no-such-module" not found`) {
		t.Fatalf("error value message = %q", got)
	}
}

func TestResolveErr_ClaimedErrorIsNotNotFound(t *testing.T) {
	eng := cueval.New()
	r := resolver.New(eng, cache.New(eng))
	failing := apis.ResolverFunc(func(name string) (apis.Value, bool) {
		return eng.MakeError(&resolver.NotFoundError{Name: "dependency of " + name}), true
	})

	_, err := r.ResolveErr("util.cue", failing)
	if err == nil {
		t.Fatal("ResolveErr returned no error for a claimed error value")
	}
	if errors.Is(err, resolver.ErrModuleNotFound) {
		t.Fatalf("claimed error %v reported as not found", err)
	}
	if r.Stats().Failures != 1 || r.Stats().NotFound != 0 {
		t.Fatalf("Stats() = %+v, want one failure and no not-found", r.Stats())
	}
}
