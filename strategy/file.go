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

package strategy

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/utils/logging"
)

// DefaultExtensions is the extension set used when no WithExtensions
// option is given.
var DefaultExtensions = []string{".cue"}

var (
	// ErrReadModule wraps I/O failures that happen after a file was claimed.
	ErrReadModule = errors.New("mload(strategy): cannot read module file")
	// ErrNilFilesystem is panicked by NewFile when fs is nil.
	ErrNilFilesystem = errors.New("mload(strategy): nil filesystem")
	// ErrNilEvaluator is panicked by NewFile when eval or eng is nil.
	ErrNilEvaluator = errors.New("mload(strategy): nil evaluator or engine")
)

// FileOption configures a file resolver.
type FileOption func(*fileStrategy)

// WithExtensions sets the file extensions the resolver claims.
// Each extension must include the leading dot. An empty list claims nothing.
func WithExtensions(exts ...string) FileOption {
	return func(s *fileStrategy) {
		s.exts = slices.Clone(exts)
	}
}

// WithFileLogger sets the logger used for debug traces.
func WithFileLogger(l *slog.Logger) FileOption {
	return func(s *fileStrategy) {
		s.logger = logging.OrDiscard(l)
	}
}

// NewFile creates an apis.Resolver that loads modules from fsys.
//
// A name is claimed when its extension is accepted and a regular file
// exists at that path. The file content is handed to eval, and the
// resulting value is returned as is, error or not. Read failures after
// the claim become error values built by eng.
func NewFile(fsys billy.Filesystem, eval apis.Evaluator, eng apis.Engine, opts ...FileOption) apis.Resolver {
	if fsys == nil {
		panic(ErrNilFilesystem)
	}
	if eval == nil || eng == nil {
		panic(ErrNilEvaluator)
	}
	s := &fileStrategy{
		fs:     fsys,
		eval:   eval,
		eng:    eng,
		exts:   slices.Clone(DefaultExtensions),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fileStrategy resolves names as paths relative to a filesystem root.
type fileStrategy struct {
	fs     billy.Filesystem
	eval   apis.Evaluator
	eng    apis.Engine
	exts   []string
	logger *slog.Logger
}

// Ensure fileStrategy implements apis.Resolver.
var _ apis.Resolver = (*fileStrategy)(nil)

// Resolve reads and evaluates the file named by name.
func (s *fileStrategy) Resolve(name string) (apis.Value, bool) {
	p, ok := s.path(name)
	if !ok {
		return nil, false
	}

	fi, err := s.fs.Stat(p)
	switch {
	case missing(err):
		return nil, false
	case err != nil:
		return s.eng.MakeError(fmt.Errorf("%w %q: %w", ErrReadModule, name, err)), true
	case fi.IsDir():
		return nil, false
	}

	src, err := util.ReadFile(s.fs, p)
	if err != nil {
		return s.eng.MakeError(fmt.Errorf("%w %q: %w", ErrReadModule, name, err)), true
	}

	s.logger.Debug("Module file loaded.", "module", name, "path", p, "bytes", len(src))
	return s.eval.Eval(src, name), true
}

// missing reports whether err means there is no file at the path. A path
// through a regular file (ENOTDIR) is as absent as a nonexistent one.
func missing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// path maps a module name to a filesystem path. The name itself stays
// untouched; only the lookup path is cleaned.
func (s *fileStrategy) path(name string) (string, bool) {
	if name == "" || !slices.Contains(s.exts, path.Ext(name)) {
		return "", false
	}
	p := path.Clean(strings.TrimPrefix(name, "/"))
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}
