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

package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/utils/logging"
)

var (
	// ErrEmptyName is returned when a module is registered without a name.
	ErrEmptyName = errors.New("mload(registry): empty module name")
	// ErrNilInit is returned when a module is registered without an initializer.
	ErrNilInit = errors.New("mload(registry): nil module initializer")
	// ErrDuplicateName is returned when a name is registered twice.
	ErrDuplicateName = errors.New("mload(registry): module name already registered")
	// ErrFrozen is returned when registering after the registry was frozen.
	ErrFrozen = errors.New("mload(registry): registry is frozen")
)

// Default is the process-wide registry compiled-in modules register with.
var Default = New()

// New constructs an empty, unfrozen registry.
func New() *Registry {
	return &Registry{names: make(map[string]struct{}), logger: logging.Discard()}
}

// Registry is the native module registry.
//
// Registration appends to a pending list under a mutex. Freeze publishes the
// list as an immutable snapshot through an atomic pointer; from then on the
// registry is read-only and lookups take no locks.
type Registry struct {
	// mu guards pending, names and logger.
	mu sync.Mutex
	// pending holds records in registration order until Freeze.
	pending []apis.NativeEntry
	// names detects duplicate registrations.
	names map[string]struct{}
	// frozen is nil until Freeze.
	frozen atomic.Pointer[[]apis.NativeEntry]
	logger *slog.Logger
}

// Ensure Registry implements apis.NativeRegistry.
var _ apis.NativeRegistry = (*Registry)(nil)

// SetLogger sets the logger registrations are traced to.
func (r *Registry) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logging.OrDiscard(l)
}

// Register appends a (name, init) record. Each name may be registered once.
func (r *Registry) Register(name string, initFn apis.InitFunc) error {
	if name == "" {
		return ErrEmptyName
	}
	if initFn == nil {
		return ErrNilInit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() != nil {
		return fmt.Errorf("%w: cannot register %q", ErrFrozen, name)
	}
	if _, ok := r.names[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	r.names[name] = struct{}{}
	r.pending = append(r.pending, apis.NativeEntry{Name: name, Init: initFn})
	r.logger.Debug("Registering native module.", "name", name)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// init functions of compiled-in module packages.
func (r *Registry) MustRegister(name string, initFn apis.InitFunc) {
	if err := r.Register(name, initFn); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only. Calling it again is a no-op.
func (r *Registry) Freeze() {
	if r.frozen.Load() != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen.Load() != nil {
		return
	}
	snap := make([]apis.NativeEntry, len(r.pending))
	copy(snap, r.pending)
	r.frozen.Store(&snap)
	r.pending = nil
	r.logger.Debug("Native module registry frozen.", "modules", len(snap))
}

// Frozen reports whether the registry is read-only.
func (r *Registry) Frozen() bool {
	return r.frozen.Load() != nil
}

// Resolve walks the records in order and runs the initializer of the first
// one named name. The initializer runs on every call: results are cached by
// the resolution cache, not here. The first Resolve freezes the registry.
// A nil *Registry claims nothing.
func (r *Registry) Resolve(name string) (apis.Value, bool) {
	if r == nil {
		return nil, false
	}
	for _, e := range r.snapshot() {
		if e.Name == name {
			return e.Init(), true
		}
	}
	return nil, false
}

// Lookup returns the record named name.
func (r *Registry) Lookup(name string) (apis.NativeEntry, bool) {
	for _, e := range r.entries() {
		if e.Name == name {
			return e, true
		}
	}
	return apis.NativeEntry{}, false
}

// Entries returns the records in registration order.
func (r *Registry) Entries() []apis.NativeEntry {
	src := r.entries()
	out := make([]apis.NativeEntry, len(src))
	copy(out, src)
	return out
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	src := r.entries()
	out := make([]string, len(src))
	for i, e := range src {
		out[i] = e.Name
	}
	return out
}

// Count returns the number of records.
func (r *Registry) Count() int {
	return len(r.entries())
}

// snapshot freezes the registry if needed and returns the frozen records.
func (r *Registry) snapshot() []apis.NativeEntry {
	if p := r.frozen.Load(); p != nil {
		return *p
	}
	r.Freeze()
	return *r.frozen.Load()
}

// entries returns the current records without freezing.
func (r *Registry) entries() []apis.NativeEntry {
	if p := r.frozen.Load(); p != nil {
		return *p
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Freeze may have run while waiting for the lock.
	if p := r.frozen.Load(); p != nil {
		return *p
	}
	out := make([]apis.NativeEntry, len(r.pending))
	copy(out, r.pending)
	return out
}

// Register adds a module to Default.
func Register(name string, initFn apis.InitFunc) error {
	return Default.Register(name, initFn)
}

// MustRegister adds a module to Default and panics on error.
func MustRegister(name string, initFn apis.InitFunc) {
	Default.MustRegister(name, initFn)
}
