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

package hclval_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"dirpx.dev/mload/engine/hclval"
)

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		opts     []hclval.Option
		wantErr  bool
		wantJSON string
	}{
		{
			name:     "literal attributes",
			src:      "name = \"util\"\nport = 8080\n",
			wantJSON: `{"name":"util","port":8080}`,
		},
		{
			name:     "functions",
			src:      "shout = upper(\"hi\")\nsize = length([1, 2, 3])\n",
			wantJSON: `{"shout":"HI","size":3}`,
		},
		{
			name:     "variables",
			src:      "greeting = \"hello ${who}\"\n",
			opts:     []hclval.Option{hclval.WithVariable("who", cty.StringVal("world"))},
			wantJSON: `{"greeting":"hello world"}`,
		},
		{
			name:    "syntax error",
			src:     "name = \n",
			wantErr: true,
		},
		{
			name:    "blocks are rejected",
			src:     "block {\n  a = 1\n}\n",
			wantErr: true,
		},
		{
			name:    "unknown variable",
			src:     "x = nope\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := hclval.New(tt.opts...)
			v := eng.Eval([]byte(tt.src), "util.hcl")

			if tt.wantErr {
				require.True(t, eng.IsError(v))
				assert.Error(t, eng.Err(v))
				return
			}

			require.False(t, eng.IsError(v), "unexpected error: %v", eng.Err(v))
			out, err := eng.EncodeJSON(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(out))
		})
	}
}

func TestMakeError_KeepsIdentity(t *testing.T) {
	eng := hclval.New()
	boom := errors.New("boom")
	v := eng.MakeError(boom)

	require.True(t, eng.IsError(v))
	assert.ErrorIs(t, eng.Err(v), boom)
	_, err := eng.EncodeJSON(v)
	assert.ErrorIs(t, err, boom)
}

func TestWithFunction_Overrides(t *testing.T) {
	eng := hclval.New(hclval.WithFunction("shout", hclval.New().Functions()["upper"]))
	v := eng.Eval([]byte("x = shout(\"a\")\n"), "f.hcl")
	require.False(t, eng.IsError(v), "unexpected error: %v", eng.Err(v))
	assert.Equal(t, cty.StringVal("A"), v.(hclval.Value).Val.GetAttr("x"))
}
