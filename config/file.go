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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/utils/logging"
)

var (
	// ErrInvalidConfig is returned when a configuration file fails validation.
	ErrInvalidConfig = errors.New("mload(config): invalid configuration")
)

// File is the on-disk representation of a configuration.
// Unset keys leave the corresponding defaults in place.
type File struct {
	Engine     *string  `yaml:"engine"`
	Root       *string  `yaml:"root"`
	Extensions []string `yaml:"extensions"`
	Native     *bool    `yaml:"native"`
	Guarded    *bool    `yaml:"guarded"`
	LogLevel   string   `yaml:"log_level"`
	LogFormat  string   `yaml:"log_format"`
}

// Load reads and validates the YAML configuration at path in fsys.
func Load(fsys billy.Filesystem, path string) (*File, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mload(config): open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a YAML configuration. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks the values present in the file.
func (f *File) Validate() error {
	if f.Engine != nil {
		switch *f.Engine {
		case EngineCUE, EngineHCL, EngineHandle:
		default:
			return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, *f.Engine)
		}
	}
	if f.Root != nil && *f.Root == "" {
		return fmt.Errorf("%w: root must not be empty", ErrInvalidConfig)
	}
	for _, ext := range f.Extensions {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, ext)
		}
	}
	if f.LogLevel != "" {
		if _, err := logging.ParseLevel(f.LogLevel); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	switch strings.ToLower(f.LogFormat) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, f.LogFormat)
	}
	return nil
}

// Options converts the file into options. A logger writing to w is
// configured when log_level or log_format is set.
func (f *File) Options(w io.Writer) ([]Option, error) {
	var opts []Option
	if f.Engine != nil {
		opts = append(opts, WithEngine(*f.Engine))
	}
	if f.Root != nil {
		opts = append(opts, WithRoot(*f.Root))
	}
	if f.Extensions != nil {
		opts = append(opts, WithExtensions(f.Extensions...))
	}
	if f.Native != nil {
		opts = append(opts, WithNative(*f.Native))
	}
	if f.Guarded != nil {
		opts = append(opts, WithGuarded(*f.Guarded))
	}
	if f.LogLevel != "" || f.LogFormat != "" {
		l, err := logging.New(f.LogLevel, f.LogFormat, w)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		opts = append(opts, WithLogger(l))
	}
	return opts, nil
}

// Config applies the file on top of DefaultConfig.
func (f *File) Config(w io.Writer) (apis.Config, error) {
	opts, err := f.Options(w)
	if err != nil {
		return apis.Config{}, err
	}
	return NewConfig(opts...), nil
}
