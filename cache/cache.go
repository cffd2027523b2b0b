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

// Package cache implements the resolution cache: an append-only store
// mapping module names to resolved values.
//
// The cache never evicts. It is meant for a small, finite universe of
// module names, each loaded once per execution context. Entries keep their
// insertion order; lookups go through a map index.
package cache

import (
	"errors"
	"sync"

	"dirpx.dev/mload/apis"
)

var (
	// ErrNilEngine is returned when a cache is used without an engine.
	ErrNilEngine = errors.New("mload(cache): nil engine")
	// ErrDuplicateEntry is returned when a name is inserted twice.
	ErrDuplicateEntry = errors.New("mload(cache): name already cached")
	// ErrErrorValue is returned when an error-flagged value is inserted.
	ErrErrorValue = errors.New("mload(cache): refusing to cache an error value")
	// ErrClosed is returned by Insert after Close.
	ErrClosed = errors.New("mload(cache): cache closed")
)

// New constructs an empty cache whose values are owned by eng.
func New(eng apis.Engine) *Cache {
	return &Cache{
		eng:   eng,
		index: make(map[string]int),
	}
}

// Cache is the default apis.Cache implementation.
//
// All methods are safe for concurrent use. Atomicity of a lookup followed
// by an insert is not provided here; the resolver serializes that sequence
// when it is configured to do so.
type Cache struct {
	// eng duplicates values on hand-out and releases them on Close.
	eng apis.Engine
	// mu guards every field below.
	mu sync.RWMutex
	// entries holds resident values in insertion order.
	entries []apis.CacheEntry
	// index maps a name to its position in entries.
	index map[string]int
	// closed is set by Close.
	closed bool
}

// Ensure Cache implements apis.Cache.
var _ apis.Cache = (*Cache)(nil)

// Lookup returns a duplicate of the value cached under name.
func (c *Cache) Lookup(name string) (apis.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.eng.Dup(c.entries[i].Value), true
}

// Insert stores v under name and takes over the caller's reference to it.
// On error the caller keeps ownership of v.
func (c *Cache) Insert(name string, v apis.Value) error {
	if c.eng == nil {
		return ErrNilEngine
	}
	if c.eng.IsError(v) {
		return ErrErrorValue
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if _, ok := c.index[name]; ok {
		return ErrDuplicateEntry
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, apis.CacheEntry{Name: name, Value: v})
	return nil
}

// Contains reports whether name is resident.
func (c *Cache) Contains(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[name]
	return ok
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Names returns resident names in insertion order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Entries returns a snapshot of the cache in insertion order.
// Every value in the snapshot is a duplicate the caller must Free.
func (c *Cache) Entries() []apis.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]apis.CacheEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = apis.CacheEntry{Name: e.Name, Value: c.eng.Dup(e.Value)}
	}
	return out
}

// Close releases the cache's reference to every resident value.
// Calling Close more than once is a no-op.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	for _, e := range c.entries {
		c.eng.Free(e.Value)
	}
	c.entries = nil
	c.index = make(map[string]int)
	return nil
}
