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

package mload

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/builder"
	"dirpx.dev/mload/config"
	"dirpx.dev/mload/resolver"
)

// init initializes the global state.
func init() {
	s, err := assemble(config.DefaultConfig(), defaultExt(), nil, builder.New(), nil, false)
	if err != nil {
		panic(err)
	}
	st.Store(s)
}

var (
	// ErrNilEngine is returned when a builder returns a nil engine.
	ErrNilEngine = errors.New("mload: builder returned nil engine")
	// ErrNilCache is returned when a builder returns a nil cache.
	ErrNilCache = errors.New("mload: builder returned nil cache")
)

// Resolve resolves name through the global chain and cache.
// The caller owns the returned value, which may be an error value.
func Resolve(name string) apis.Value {
	s := st.Load()
	return s.runner.Resolve(name, s.chain...)
}

// ResolveErr is Resolve with error values converted to Go errors.
func ResolveErr(name string) (apis.Value, error) {
	s := st.Load()
	return s.runner.ResolveErr(name, s.chain...)
}

// ResolveWith resolves name through resolvers instead of the global chain.
// The global cache is still consulted and filled.
func ResolveWith(name string, resolvers ...apis.Resolver) apis.Value {
	return st.Load().runner.Resolve(name, resolvers...)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration.
//
// The engine and cache are rebuilt, and so is the chain unless it is
// pinned. The previous cache is closed. On error the state is unchanged.
func SetConfig(cfg apis.Config) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s, err := assemble(cfg, old.ext, nil, old.bld, old.chain, old.pinned)
	if err != nil {
		return err
	}
	swap(old, s)
	return nil
}

// Engine returns the global host engine.
func Engine() apis.EvalEngine {
	return st.Load().eng
}

// SetEngine replaces the global engine and starts over with an empty cache.
// An unpinned chain is rebuilt for the new engine.
func SetEngine(eng apis.EvalEngine) {
	if eng == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	s, err := assemble(old.cfg, old.ext, eng, old.bld, old.chain, old.pinned)
	if err != nil {
		panic(err)
	}
	swap(old, s)
}

// Resolvers returns a copy of the global chain.
func Resolvers() []apis.Resolver {
	return slices.Clone(st.Load().chain)
}

// SetResolvers replaces the global chain and pins it. Cached modules are
// kept. Nil entries are dropped.
func SetResolvers(resolvers ...apis.Resolver) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.chain = compact(resolvers)
	next.pinned = true
	st.Store(&next)
}

// IsResolversPinned returns whether the global chain is pinned.
func IsResolversPinned() bool {
	return st.Load().pinned
}

// UnpinResolvers rebuilds the chain with the builder and unpins it.
func UnpinResolvers() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.chain = compact(old.bld.BuildResolvers(resolverConfig(old.cfg), old.eng, old.ext))
	next.pinned = false
	st.Store(&next)
}

// SetAll explicitly sets all global state components.
//
// A nil cfg or bld leaves the component unchanged. A nil ext restores the
// default extension, a nil eng is built from the configuration, and nil
// resolvers are built and unpinned. The previous cache is always closed.
//
// This is mainly used by tests to get a clean deterministic state.
func SetAll(cfg *apis.Config, ext any, eng apis.EvalEngine, resolvers []apis.Resolver, bld apis.Builder) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	next := ext
	if next == nil {
		next = defaultExt()
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	s, err := assemble(ncfg, next, eng, nbld, resolvers, resolvers != nil)
	if err != nil {
		return err
	}
	swap(old, s)
	return nil
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// Runner returns the global runner.
func Runner() *resolver.Runner {
	return st.Load().runner
}

// Stats returns the counters of the global runner.
func Stats() resolver.Stats {
	return st.Load().runner.Stats()
}

// Close releases every cached module and replaces the cache with an empty one.
func Close() error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.cache = old.bld.BuildCache(old.cfg, old.eng)
	if next.cache == nil {
		panic(ErrNilCache)
	}
	next.runner = newRunner(old.cfg, old.eng, next.cache)
	st.Store(&next)
	return old.cache.Close()
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the extension value passed to the builder.
	ext any
	// eng is the host engine.
	eng apis.EvalEngine
	// cache holds resolved modules for eng.
	cache apis.Cache
	// runner drives the chain against cache.
	runner *resolver.Runner
	// chain is the default resolver chain.
	chain []apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// pinned indicates whether chain was set explicitly.
	pinned bool
}

// assemble builds a complete state. eng is built from cfg when nil, and
// chain is rebuilt unless pinned.
func assemble(cfg apis.Config, ext any, eng apis.EvalEngine, bld apis.Builder, chain []apis.Resolver, pinned bool) (*state, error) {
	if eng == nil {
		var err error
		if eng, err = bld.BuildEngine(cfg); err != nil {
			return nil, err
		}
		if eng == nil {
			return nil, ErrNilEngine
		}
	}

	c := bld.BuildCache(cfg, eng)
	if c == nil {
		return nil, ErrNilCache
	}

	if !pinned {
		chain = bld.BuildResolvers(resolverConfig(cfg), eng, ext)
	}

	return &state{
		cfg:    cfg,
		ext:    ext,
		eng:    eng,
		cache:  c,
		runner: newRunner(cfg, eng, c),
		chain:  compact(chain),
		bld:    bld,
		pinned: pinned,
	}, nil
}

// swap publishes s and closes the cache of old when it was replaced.
func swap(old, s *state) {
	st.Store(s)
	if old != nil && old.cache != s.cache {
		_ = old.cache.Close()
	}
}

func newRunner(cfg apis.Config, eng apis.Engine, c apis.Cache) *resolver.Runner {
	opts := []resolver.Option{resolver.WithLogger(cfg.Logger)}
	if cfg.Guarded {
		opts = append(opts, resolver.WithGuard())
	}
	return resolver.New(eng, c, opts...)
}

// resolverConfig masks Native in builds without compiled-in modules.
func resolverConfig(cfg apis.Config) apis.Config {
	cfg.Native = cfg.Native && NativeModules
	return cfg
}

func defaultExt() any {
	return builder.Ext{Native: nativeRegistry()}
}

func compact(resolvers []apis.Resolver) []apis.Resolver {
	return slices.DeleteFunc(slices.Clone(resolvers), func(r apis.Resolver) bool { return r == nil })
}
