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

// Builder composes the resolution layers from a Config.
// Implementations may reuse state from previous instances, or ignore them.
type Builder interface {
	// BuildEngine constructs the host engine selected by cfg.
	BuildEngine(cfg Config) (EvalEngine, error)
	// BuildCache constructs an empty cache bound to eng.
	BuildCache(cfg Config, eng Engine) Cache
	// BuildResolvers constructs the default resolver chain for cfg.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildResolvers(cfg Config, eng EvalEngine, ext any) []Resolver
}
