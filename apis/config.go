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

import "log/slog"

// Config carries read-only resolution knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Engine selects the host engine by name ("cue", "hcl" or "handle").
	Engine string

	// Root is the directory the file resolver reads modules from.
	Root string

	// Extensions lists the file extensions the file resolver claims,
	// including the leading dot.
	Extensions []string

	// Native controls whether the native module resolver is placed first
	// in the default chain. It has no effect in builds without native modules.
	Native bool

	// Guarded makes lookup-then-insert atomic per module name so that
	// concurrent goroutines never run the chain twice for one name.
	Guarded bool

	// Logger receives debug traces of resolution. Nil means discard.
	Logger *slog.Logger
}
