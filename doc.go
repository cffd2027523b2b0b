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

// Package mload provides a global, process-wide module loading service
// for an embedded script engine.
//
// Given a textual module name such as "math" or "./util.cue", mload
// produces a module value by consulting an ordered chain of resolvers and
// caches every successful result, so repeated requests for the same name
// never touch a resolver again.
//
// # Design
//
// The core of mload is a read-mostly global snapshot (state). The snapshot
// holds:
//
//   - Config: the engine name, the module root, accepted file extensions,
//     whether compiled-in modules are consulted, and whether resolution is
//     guarded per name.
//
//   - Engine: the host engine. It owns every module value and decides
//     what an error value is, how values are duplicated and released, and
//     how module source is evaluated.
//
//   - Cache: an append-only map from module name to resolved value. Only
//     successful values are stored. Failed lookups are retried on every
//     request.
//
//   - Chain: the resolvers tried in order on a cache miss. The first
//     resolver that claims a name decides the outcome. The default chain
//     is:
//     1. the native resolver, which walks modules compiled into the binary;
//     2. the file resolver, which reads module files under Config.Root.
//
//   - Builder: a pluggable factory that constructs the engine, the cache
//     and the default chain for a given Config.
//
// Readers load the current snapshot atomically and never lock. Writers take
// a short build mutex, assemble a new snapshot and publish it.
//
//	v, err := mload.ResolveErr("math")
//
// # Ownership
//
// Every value returned by Resolve is owned by the caller, who releases it
// through the engine when done. The cache keeps its own reference until it
// is closed; Close and every reconfiguration that replaces the cache
// release all cached modules.
//
// # Native modules
//
// Packages under modules/ register themselves with registry.Default from
// init(). The registry freezes at the first resolution, after which the
// set of native modules never changes. Import modules/all to link every
// bundled module. Building with the mload_nonative tag sets NativeModules
// to false and leaves the native resolver out of the default chain.
//
// # Pinning
//
// SetResolvers installs an explicit chain and pins it: configuration
// changes keep that chain until UnpinResolvers is called.
package mload
