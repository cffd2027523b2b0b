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

package registry_test

import (
	"runtime"
	"strconv"
	"sync"
	"testing"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/registry"
)

// TestConcurrentResolveAfterFreeze verifies that lookups on a frozen
// registry are race-free and consistent.
func TestConcurrentResolveAfterFreeze(t *testing.T) {
	reg := registry.New()
	names := make([]string, 10)
	for i := range names {
		names[i] = "mod" + strconv.Itoa(i)
		want := names[i]
		reg.MustRegister(want, func() apis.Value { return want })
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				name := names[i%len(names)]
				v, ok := reg.Resolve(name)
				if !ok || v != name {
					t.Errorf("Resolve(%s) = (%v,%v)", name, v, ok)
					return
				}
				_ = reg.Count()
			}
		}()
	}
	wg.Wait()

	if !reg.Frozen() || reg.Count() != len(names) {
		t.Fatalf("Frozen()=%v Count()=%d", reg.Frozen(), reg.Count())
	}
}

// TestConcurrentRegisterAndFreeze verifies that every registration either
// lands before the freeze or fails with ErrFrozen.
func TestConcurrentRegisterAndFreeze(t *testing.T) {
	reg := registry.New()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers + 1)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				err := reg.Register("w"+strconv.Itoa(id)+"-"+strconv.Itoa(i), func() apis.Value { return nil })
				if err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}
		}(w)
	}
	go func() {
		defer wg.Done()
		reg.Freeze()
	}()
	wg.Wait()

	if reg.Count() != accepted {
		t.Fatalf("Count() = %d, accepted = %d", reg.Count(), accepted)
	}
}
