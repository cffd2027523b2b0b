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

package env_test

import (
	"testing"

	"cuelang.org/go/cue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/mload/modules/env"
	"dirpx.dev/mload/registry"
)

func TestRegistered(t *testing.T) {
	_, ok := registry.Default.Lookup(env.Name)
	assert.True(t, ok)
}

func TestSnapshot(t *testing.T) {
	got := env.Snapshot([]string{
		"HOME=/root",
		"EMPTY=",
		"EQ=a=b",
		"=C:=C:\\",
		"NOEQUALS",
		"HOME=/home/dup",
	})
	assert.Equal(t, map[string]string{
		"HOME":  "/home/dup",
		"EMPTY": "",
		"EQ":    "a=b",
	}, got)
}

func TestInit(t *testing.T) {
	t.Setenv("MLOAD_ENV_PROBE", "on")

	cv, ok := env.Init().(cue.Value)
	require.True(t, ok)
	s, err := cv.LookupPath(cue.MakePath(cue.Str("MLOAD_ENV_PROBE"))).String()
	require.NoError(t, err)
	assert.Equal(t, "on", s)
}
