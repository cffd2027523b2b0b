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

package config_test

import (
	"reflect"
	"testing"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/config"
	"dirpx.dev/mload/utils/logging"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.Engine != config.DefaultEngine {
		t.Fatalf("Engine = %q, want %q", got.Engine, config.DefaultEngine)
	}
	if got.Root != config.DefaultRoot {
		t.Fatalf("Root = %q, want %q", got.Root, config.DefaultRoot)
	}
	if got.Native != config.DefaultNative {
		t.Fatalf("Native = %v, want %v", got.Native, config.DefaultNative)
	}
	if got.Guarded != config.DefaultGuarded {
		t.Fatalf("Guarded = %v, want %v", got.Guarded, config.DefaultGuarded)
	}
	if got.Extensions != nil || got.Logger != nil {
		t.Fatalf("Extensions/Logger = %v/%v, want nil", got.Extensions, got.Logger)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if !reflect.DeepEqual(got, def) {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestOptions(t *testing.T) {
	l := logging.Discard()
	got := config.NewConfig(
		config.WithEngine(config.EngineHCL),
		config.WithRoot("/srv/modules"),
		config.WithExtensions(".hcl", ".tf"),
		config.WithNative(false),
		config.WithGuarded(false),
		config.WithLogger(l),
	)
	want := apis.Config{
		Engine:     config.EngineHCL,
		Root:       "/srv/modules",
		Extensions: []string{".hcl", ".tf"},
		Native:     false,
		Guarded:    false,
		Logger:     l,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NewConfig(...) = %+v, want %+v", got, want)
	}
}

func TestWithRoot_Empty_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithRoot("x"), config.WithRoot(""))
	if c.Root != config.DefaultRoot {
		t.Fatalf("Root = %q, want %q", c.Root, config.DefaultRoot)
	}
}

func TestWithEngine_Empty_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithEngine(""))
	if c.Engine != config.DefaultEngine {
		t.Fatalf("Engine = %q, want %q", c.Engine, config.DefaultEngine)
	}
}

func TestWithExtensions_Copies(t *testing.T) {
	exts := []string{".cue"}
	c := config.NewConfig(config.WithExtensions(exts...))
	exts[0] = ".bad"
	if c.Extensions[0] != ".cue" {
		t.Fatalf("Extensions aliased caller slice: %v", c.Extensions)
	}
}

func TestExtensions(t *testing.T) {
	tests := []struct {
		name string
		cfg  apis.Config
		want []string
	}{
		{"cue default", config.NewConfig(), []string{".cue"}},
		{"hcl default", config.NewConfig(config.WithEngine(config.EngineHCL)), []string{".hcl"}},
		{"handle default", config.NewConfig(config.WithEngine(config.EngineHandle)), []string{".txt"}},
		{"explicit", config.NewConfig(config.WithExtensions(".mod")), []string{".mod"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := config.Extensions(tt.cfg); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Extensions() = %v, want %v", got, tt.want)
			}
		})
	}
}
