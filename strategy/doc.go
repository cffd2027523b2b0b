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

// Package strategy provides the built-in resolvers.
//
//   - NewNative claims modules compiled into the binary.
//   - NewFile claims module files under a filesystem root.
//   - NewStatic claims a fixed set of names, for hosts and tests that
//     wire modules by hand.
//
// Resolvers only produce values. Caching is done by the resolver runner.
package strategy
