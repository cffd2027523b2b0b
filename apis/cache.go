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

// Cache is the append-only store of resolved modules.
// Implementations hold one reference per resident value until Close.
type Cache interface {
	// Lookup returns a duplicate of the resident value for name, if any.
	Lookup(name string) (Value, bool)
	// Insert stores v under name, taking ownership of one reference.
	// name must be absent and v must not be an error value.
	Insert(name string, v Value) error
	// Contains reports whether name is resident.
	Contains(name string) bool
	// Len returns the number of resident entries.
	Len() int
	// Names returns resident names in insertion order.
	Names() []string
	// Close releases every resident value. The cache is unusable afterwards.
	Close() error
}

// CacheEntry is a single (name, value) association in a Cache snapshot.
type CacheEntry struct {
	// Name is the module name used as the cache key.
	Name string
	// Value is a duplicated reference owned by the snapshot holder.
	Value Value
}
