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

// Package registry holds compiled-in ("native") modules.
//
// Each module package describes itself with a name and a zero-argument
// initializer and registers with the process-wide Default registry from its
// init function:
//
//	func init() {
//		registry.MustRegister("math", Init)
//	}
//
// Importing the package, usually for side effects only, is all it takes to
// make the module resolvable. No central list has to be maintained.
//
// Registration must finish before the first resolution. The first call to
// Resolve freezes the registry; later registrations fail with ErrFrozen and
// the records never change again, which makes concurrent lookups safe
// without synchronization.
package registry
