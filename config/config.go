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

package config

import (
	"log/slog"
	"slices"

	"dirpx.dev/mload/apis"
)

// Engine names accepted in apis.Config.Engine.
const (
	EngineCUE    = "cue"
	EngineHCL    = "hcl"
	EngineHandle = "handle"
)

const (
	// DefaultEngine represents the default for Engine.
	DefaultEngine = EngineCUE
	// DefaultRoot represents the default for Root.
	// Module files are looked up relative to the working directory.
	DefaultRoot = "."
	// DefaultNative represents the default for Native.
	DefaultNative = true
	// DefaultGuarded represents the default for Guarded.
	DefaultGuarded = true
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Engine == "" {
		cfg.Engine = DefaultEngine
	}
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
// Extensions is left empty so that the engine's own extension applies.
func DefaultConfig() apis.Config {
	return apis.Config{
		Engine:  DefaultEngine,
		Root:    DefaultRoot,
		Native:  DefaultNative,
		Guarded: DefaultGuarded,
	}
}

// Extensions returns the file extensions in effect for cfg.
func Extensions(cfg apis.Config) []string {
	if len(cfg.Extensions) > 0 {
		return slices.Clone(cfg.Extensions)
	}
	return EngineExtensions(cfg.Engine)
}

// EngineExtensions returns the default module file extensions of engine.
func EngineExtensions(engine string) []string {
	switch engine {
	case EngineHCL:
		return []string{".hcl"}
	case EngineHandle:
		return []string{".txt"}
	default:
		return []string{".cue"}
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithEngine sets the Engine option.
func WithEngine(name string) Option {
	return func(c *apis.Config) {
		c.Engine = name
	}
}

// WithRoot sets the Root option.
// An empty root resets to the default.
func WithRoot(root string) Option {
	return func(c *apis.Config) {
		if root == "" {
			c.Root = DefaultRoot
			return
		}
		c.Root = root
	}
}

// WithExtensions sets the Extensions option.
func WithExtensions(exts ...string) Option {
	return func(c *apis.Config) {
		c.Extensions = slices.Clone(exts)
	}
}

// WithNative sets the Native option.
func WithNative(native bool) Option {
	return func(c *apis.Config) {
		c.Native = native
	}
}

// WithGuarded sets the Guarded option.
func WithGuarded(guarded bool) Option {
	return func(c *apis.Config) {
		c.Guarded = guarded
	}
}

// WithLogger sets the Logger option.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}
