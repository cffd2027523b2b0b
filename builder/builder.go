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

package builder

import (
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/cache"
	"dirpx.dev/mload/config"
	"dirpx.dev/mload/engine/cueval"
	"dirpx.dev/mload/engine/handle"
	"dirpx.dev/mload/engine/hclval"
	"dirpx.dev/mload/strategy"
	"dirpx.dev/mload/utils/logging"
)

var (
	// ErrUnknownEngine is returned by BuildEngine for unsupported engine names.
	ErrUnknownEngine = errors.New("mload(builder): unknown engine")
)

// Ext carries the optional inputs of BuildResolvers.
type Ext struct {
	// Native is the registry walked by the native resolver. Nil disables it.
	Native apis.NativeRegistry
	// FS overrides the filesystem rooted at Config.Root.
	FS billy.Filesystem
}

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildEngine returns the host engine named by cfg.Engine.
// The CUE engine is the shared instance native modules build their values with.
func (b *builder) BuildEngine(cfg apis.Config) (apis.EvalEngine, error) {
	switch cfg.Engine {
	case config.EngineCUE, "":
		return cueval.Shared(), nil
	case config.EngineHCL:
		return hclval.New(), nil
	case config.EngineHandle:
		return handle.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
}

// BuildCache returns an empty cache bound to eng.
func (b *builder) BuildCache(_ apis.Config, eng apis.Engine) apis.Cache {
	return cache.New(eng)
}

// BuildResolvers returns the default chain: the native resolver first,
// when enabled and compatible with the engine, then the file resolver.
//
// ext may be an Ext, a *Ext or an apis.NativeRegistry.
func (b *builder) BuildResolvers(cfg apis.Config, eng apis.EvalEngine, ext any) []apis.Resolver {
	x := extOf(ext)

	var out []apis.Resolver
	if cfg.Native && x.Native != nil && nativeCompatible(cfg) {
		out = append(out, strategy.NewNative(x.Native))
	}

	fsys := x.FS
	if fsys == nil {
		root := cfg.Root
		if root == "" {
			root = config.DefaultRoot
		}
		fsys = osfs.New(root, osfs.WithBoundOS())
	}
	out = append(out, strategy.NewFile(fsys, eng, eng,
		strategy.WithExtensions(config.Extensions(cfg)...),
		strategy.WithFileLogger(logging.OrDiscard(cfg.Logger)),
	))
	return out
}

// nativeCompatible reports whether compiled-in modules can live next to
// values of the configured engine. They are built as CUE values.
func nativeCompatible(cfg apis.Config) bool {
	return cfg.Engine == config.EngineCUE || cfg.Engine == ""
}

func extOf(ext any) Ext {
	switch x := ext.(type) {
	case Ext:
		return x
	case *Ext:
		if x != nil {
			return *x
		}
	case apis.NativeRegistry:
		return Ext{Native: x}
	}
	return Ext{}
}
