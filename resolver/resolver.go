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

// Package resolver runs an ordered chain of resolvers for a module name and
// keeps the resolution cache up to date.
//
// Resolution of one name goes through these states:
//
//	Start -> CacheCheck -> CacheHit -> Return
//	                    -> CacheMiss -> ChainIterate
//	ChainIterate -> ResolverClaims -> ValueOk -> CacheInsert -> Return
//	                               -> ValueError -> Return
//	             -> ChainExhausted -> Return (not found)
//
// The first resolver that claims a name owns the outcome for that request,
// success or failure. Later resolvers are never consulted, even when the
// claimed value is an error.
package resolver

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/cache"
	"dirpx.dev/mload/utils/logging"
)

var (
	// ErrModuleNotFound matches every NotFoundError via errors.Is.
	ErrModuleNotFound = errors.New("mload(resolver): module not found")
	// ErrNilEngine is the panic value for a Runner built without an engine.
	ErrNilEngine = errors.New("mload(resolver): nil engine")
	// ErrNilCache is the panic value for a Runner built without a cache.
	ErrNilCache = errors.New("mload(resolver): nil cache")
)

// NotFoundError reports that no resolver claimed Name.
type NotFoundError struct {
	Name string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found", e.Name)
}

// Is makes errors.Is(err, ErrModuleNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrModuleNotFound
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for resolution traces.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logging.OrDiscard(l)
	}
}

// WithGuard serializes resolution per module name, making the cache lookup
// and the following insert atomic with respect to other goroutines resolving
// the same name. Without it a Runner assumes a single execution context.
func WithGuard() Option {
	return func(r *Runner) {
		r.guard = newKeyedMutex()
	}
}

// New constructs a Runner writing to c. Values are managed through eng.
// It panics if eng or c is nil.
func New(eng apis.Engine, c apis.Cache, opts ...Option) *Runner {
	if eng == nil {
		panic(ErrNilEngine)
	}
	if c == nil {
		panic(ErrNilCache)
	}
	r := &Runner{eng: eng, cache: c, logger: logging.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Runner is the resolver chain runner. It is the only writer of its cache.
type Runner struct {
	eng    apis.Engine
	cache  apis.Cache
	logger *slog.Logger
	// guard is nil for an unguarded runner.
	guard *keyedMutex
	stats counters
}

// Engine returns the engine the runner manages values with.
func (r *Runner) Engine() apis.Engine { return r.eng }

// Cache returns the cache the runner writes to.
func (r *Runner) Cache() apis.Cache { return r.cache }

// Guarded reports whether the runner serializes resolution per name.
func (r *Runner) Guarded() bool { return r.guard != nil }

// Resolve returns the module value for name, consulting resolvers in order
// on a cache miss. The result is always owned by the caller: either a value
// or an error-flagged value from the engine. Nil resolvers are skipped.
func (r *Runner) Resolve(name string, resolvers ...apis.Resolver) apis.Value {
	v, _ := r.resolve(name, resolvers)
	return v
}

// ResolveErr is Resolve for Go callers: an error-flagged result is released
// and returned as a Go error instead. When no resolver claims name the error
// is a *NotFoundError, whatever the engine keeps of it in the error value.
func (r *Runner) ResolveErr(name string, resolvers ...apis.Resolver) (apis.Value, error) {
	v, notFound := r.resolve(name, resolvers)
	if !r.eng.IsError(v) {
		return v, nil
	}
	err := r.eng.Err(v)
	r.eng.Free(v)
	if notFound {
		return nil, &NotFoundError{Name: name}
	}
	if err == nil {
		err = fmt.Errorf("mload(resolver): module %q failed to resolve", name)
	}
	return nil, err
}

// resolve runs the state machine. notFound reports that the chain was
// exhausted without a claim.
func (r *Runner) resolve(name string, resolvers []apis.Resolver) (v apis.Value, notFound bool) {
	if r.guard != nil {
		unlock := r.guard.lock(name)
		defer unlock()
	}

	if v, ok := r.cache.Lookup(name); ok {
		r.stats.hits.Add(1)
		r.logger.Debug("Module served from cache.", "name", name)
		return v, false
	}
	r.stats.misses.Add(1)

	for i, res := range resolvers {
		if res == nil {
			continue
		}
		v, claimed := res.Resolve(name)
		if !claimed {
			continue
		}
		r.stats.claims.Add(1)

		if r.eng.IsError(v) {
			r.stats.failures.Add(1)
			r.logger.Debug("Resolver claimed module with an error.", "name", name, "resolver", i, "error", r.eng.Err(v))
			return v, false
		}
		r.logger.Debug("Resolver claimed module.", "name", name, "resolver", i)
		return r.store(name, v), false
	}

	r.stats.notFound.Add(1)
	r.logger.Debug("No resolver claimed module.", "name", name, "resolvers", len(resolvers))
	return r.eng.MakeError(&NotFoundError{Name: name}), true
}

// Bind returns a Chain that resolves through r with a fixed resolver list.
// Nil resolvers are dropped.
func (r *Runner) Bind(resolvers ...apis.Resolver) *Chain {
	out := make([]apis.Resolver, 0, len(resolvers))
	for _, res := range resolvers {
		if res != nil {
			out = append(out, res)
		}
	}
	return &Chain{runner: r, resolvers: out}
}

// Stats returns a snapshot of the runner counters.
func (r *Runner) Stats() Stats {
	return r.stats.snapshot()
}

// store inserts v and hands a duplicate to the caller. When another
// goroutine won the insert for name, the resident value is returned and v
// is released.
func (r *Runner) store(name string, v apis.Value) apis.Value {
	err := r.cache.Insert(name, v)
	if err == nil {
		return r.eng.Dup(v)
	}

	if errors.Is(err, cache.ErrDuplicateEntry) {
		if resident, ok := r.cache.Lookup(name); ok {
			r.eng.Free(v)
			return resident
		}
	}
	r.logger.Debug("Module not cached.", "name", name, "error", err)
	return v
}

// Chain is an immutable resolver list bound to a Runner.
type Chain struct {
	runner    *Runner
	resolvers []apis.Resolver
}

// Resolve resolves name through the bound resolver list.
func (c *Chain) Resolve(name string) apis.Value {
	return c.runner.Resolve(name, c.resolvers...)
}

// ResolveErr is the Go-error form of Resolve.
func (c *Chain) ResolveErr(name string) (apis.Value, error) {
	return c.runner.ResolveErr(name, c.resolvers...)
}

// Resolvers returns a copy of the bound resolver list.
func (c *Chain) Resolvers() []apis.Resolver {
	out := make([]apis.Resolver, len(c.resolvers))
	copy(out, c.resolvers)
	return out
}

// Runner returns the runner the chain is bound to.
func (c *Chain) Runner() *Runner { return c.runner }

// Stats counts resolution outcomes since a Runner was created.
type Stats struct {
	// Hits counts requests answered by the cache.
	Hits uint64
	// Misses counts requests that ran the chain.
	Misses uint64
	// Claims counts requests some resolver claimed.
	Claims uint64
	// Failures counts claims that produced an error value.
	Failures uint64
	// NotFound counts requests no resolver claimed.
	NotFound uint64
}

type counters struct {
	hits, misses, claims, failures, notFound atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Claims:   c.claims.Load(),
		Failures: c.failures.Load(),
		NotFound: c.notFound.Load(),
	}
}
