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

// InitFunc produces the value of a compiled-in module.
type InitFunc func() Value

// NativeEntry is a single (name, initializer) record of a native registry.
type NativeEntry struct {
	// Name is the module name the record answers to.
	Name string
	// Init produces a fresh value each time it is called.
	Init InitFunc
}

// NativeRegistry is the process-wide list of compiled-in modules.
// Registration happens before the first resolution; afterwards the list
// is frozen and safe for concurrent reads without locking.
type NativeRegistry interface {
	// Register appends a record. It fails once the registry is frozen.
	Register(name string, initFn InitFunc) error
	// Resolve runs the initializer of the first record named name.
	Resolve(name string) (Value, bool)
	// Entries returns the records in registration order.
	Entries() []NativeEntry
	// Count returns the number of records.
	Count() int
	// Freeze makes the registry read-only.
	Freeze()
	// Frozen reports whether Freeze has happened.
	Frozen() bool
}
