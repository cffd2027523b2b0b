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

package strategy_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"cuelang.org/go/cue"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/cache"
	"dirpx.dev/mload/engine/cueval"
	"dirpx.dev/mload/registry"
	"dirpx.dev/mload/resolver"
	"dirpx.dev/mload/strategy"
)

// countingFS records every filesystem access made through it.
type countingFS struct {
	billy.Filesystem
	stats atomic.Int64
	opens atomic.Int64
}

func (c *countingFS) Stat(name string) (os.FileInfo, error) {
	c.stats.Add(1)
	return c.Filesystem.Stat(name)
}

func (c *countingFS) Open(name string) (billy.File, error) {
	c.opens.Add(1)
	return c.Filesystem.Open(name)
}

func (c *countingFS) touches() int64 {
	return c.stats.Load() + c.opens.Load()
}

// deniedFS fails every Stat with a permission error.
type deniedFS struct {
	billy.Filesystem
}

func (deniedFS) Stat(string) (os.FileInfo, error) {
	return nil, fs.ErrPermission
}

func newFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	mfs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(mfs, name, []byte(content), 0o644))
	}
	return mfs
}

func lookupInt(t *testing.T, v apis.Value, path string) int64 {
	t.Helper()
	cv, ok := v.(cue.Value)
	require.True(t, ok, "value is %T", v)
	n, err := cv.LookupPath(cue.ParsePath(path)).Int64()
	require.NoError(t, err)
	return n
}

func TestFile_Resolve(t *testing.T) {
	eng := cueval.New()
	fsys := newFS(t, map[string]string{
		"util.cue":        "answer: 42\n",
		"lib/strings.cue": "size: 3\n",
		"broken.cue":      "answer: \n",
		"notes.txt":       "hello\n",
	})
	require.NoError(t, fsys.MkdirAll("dir.cue", 0o755))

	res := strategy.NewFile(fsys, eng, eng)

	tests := []struct {
		name    string
		module  string
		claimed bool
		isErr   bool
		field   string
		want    int64
	}{
		{name: "plain", module: "util.cue", claimed: true, field: "answer", want: 42},
		{name: "dot slash", module: "./util.cue", claimed: true, field: "answer", want: 42},
		{name: "leading slash", module: "/util.cue", claimed: true, field: "answer", want: 42},
		{name: "nested", module: "lib/strings.cue", claimed: true, field: "size", want: 3},
		{name: "eval error is claimed", module: "broken.cue", claimed: true, isErr: true},
		{name: "missing", module: "nope.cue"},
		{name: "foreign extension", module: "notes.txt"},
		{name: "no extension", module: "math"},
		{name: "directory", module: "dir.cue"},
		{name: "escapes root", module: "../util.cue"},
		{name: "below a regular file", module: "util.cue/x.cue"},
		{name: "empty", module: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := res.Resolve(tt.module)
			require.Equal(t, tt.claimed, ok)
			if !tt.claimed {
				assert.Nil(t, v)
				return
			}
			if tt.isErr {
				assert.True(t, eng.IsError(v))
				return
			}
			require.False(t, eng.IsError(v), "unexpected error: %v", eng.Err(v))
			assert.Equal(t, tt.want, lookupInt(t, v, tt.field))
		})
	}
}

func TestFile_PathThroughRegularFileIsNotClaimed(t *testing.T) {
	eng := cueval.New()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "util.cue"), []byte("answer: 42\n"), 0o600))

	res := strategy.NewFile(osfs.New(root, osfs.WithBoundOS()), eng, eng)
	fallback := strategy.NewStatic(map[string]apis.InitFunc{
		"util.cue/x.cue": func() apis.Value { return eng.Compile("x: 1") },
	})

	v, ok := res.Resolve("util.cue/x.cue")
	assert.False(t, ok)
	assert.Nil(t, v)

	c := cache.New(eng)
	defer c.Close()
	got := resolver.New(eng, c).Resolve("util.cue/x.cue", res, fallback)
	require.False(t, eng.IsError(got), "later resolver was blocked: %v", eng.Err(got))
	assert.Equal(t, int64(1), lookupInt(t, got, "x"))
}

func TestFile_WithExtensions(t *testing.T) {
	eng := cueval.New()
	fsys := newFS(t, map[string]string{
		"a.cue": "x: 1\n",
		"b.mod": "x: 2\n",
	})

	res := strategy.NewFile(fsys, eng, eng, strategy.WithExtensions(".mod"))

	_, ok := res.Resolve("a.cue")
	assert.False(t, ok)
	v, ok := res.Resolve("b.mod")
	require.True(t, ok)
	assert.Equal(t, int64(2), lookupInt(t, v, "x"))

	none := strategy.NewFile(fsys, eng, eng, strategy.WithExtensions())
	_, ok = none.Resolve("a.cue")
	assert.False(t, ok, "empty extension list claims nothing")
}

func TestFile_StatFailureIsClaimedError(t *testing.T) {
	eng := cueval.New()
	res := strategy.NewFile(deniedFS{memfs.New()}, eng, eng)

	v, ok := res.Resolve("util.cue")
	require.True(t, ok)
	require.True(t, eng.IsError(v))
	assert.Contains(t, eng.Err(v).Error(), "cannot read module file")
}

func TestNewFile_Panics(t *testing.T) {
	eng := cueval.New()
	assert.PanicsWithValue(t, strategy.ErrNilFilesystem, func() {
		strategy.NewFile(nil, eng, eng)
	})
	assert.PanicsWithValue(t, strategy.ErrNilEvaluator, func() {
		strategy.NewFile(memfs.New(), nil, eng)
	})
}

func TestChain_NativeThenFile(t *testing.T) {
	eng := cueval.New()
	fsys := &countingFS{Filesystem: newFS(t, map[string]string{
		"util.cue": "answer: 42\n",
	})}

	reg := registry.New()
	var mathInits atomic.Int64
	reg.MustRegister("math", func() apis.Value {
		mathInits.Add(1)
		return eng.Compile("pi: 3\n")
	})

	c := cache.New(eng)
	defer c.Close()
	chain := resolver.New(eng, c).Bind(
		strategy.NewNative(reg),
		strategy.NewFile(fsys, eng, eng),
	)

	// Native modules never reach the filesystem.
	m := chain.Resolve("math")
	require.False(t, eng.IsError(m))
	assert.Equal(t, int64(3), lookupInt(t, m, "pi"))
	assert.Zero(t, fsys.touches())

	u := chain.Resolve("./util.cue")
	require.False(t, eng.IsError(u))
	assert.Equal(t, int64(42), lookupInt(t, u, "answer"))
	touched := fsys.touches()
	assert.Positive(t, touched)

	// Second round is served by the cache.
	chain.Resolve("math")
	chain.Resolve("./util.cue")
	assert.Equal(t, touched, fsys.touches())
	assert.Equal(t, int64(1), mathInits.Load())

	// The raw name is the key: util.cue is a distinct entry.
	chain.Resolve("util.cue")
	assert.Equal(t, []string{"math", "./util.cue", "util.cue"}, c.Names())

	nf := chain.Resolve("missing")
	require.True(t, eng.IsError(nf))
	assert.Contains(t, eng.Err(nf).Error(), `module "missing" not found`)
	assert.False(t, c.Contains("missing"))
}
