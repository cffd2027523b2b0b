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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"dirpx.dev/mload"
	"dirpx.dev/mload/apis"
	"dirpx.dev/mload/config"
	"dirpx.dev/mload/internal/cli"
	_ "dirpx.dev/mload/modules/all"
	"dirpx.dev/mload/registry"
	"dirpx.dev/mload/resolver"
	"dirpx.dev/mload/utils/logging"
)

// main is the entrypoint for the mload command.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// result is the outcome of resolving one module.
type result struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	cfg, err := loadConfig(opts, errW)
	if err != nil {
		return err
	}
	registry.Default.SetLogger(cfg.Logger)
	if err := mload.SetConfig(cfg); err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}
	defer func() { _ = mload.Close() }()

	results := resolveAll(mload.Runner().Bind(mload.Resolvers()...), opts.Names)
	if err := write(outW, opts.Format, results); err != nil {
		return err
	}

	if opts.Stats {
		writeStats(errW, mload.Stats())
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return &cli.ExitError{Code: 1, Message: fmt.Sprintf("%d of %d modules failed to resolve", failed, len(results))}
	}
	return nil
}

// loadConfig layers the configuration file, explicit flags and logging flags.
func loadConfig(opts *cli.Options, errW io.Writer) (apis.Config, error) {
	var cfgOpts []config.Option

	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return apis.Config{}, &cli.ExitError{Code: 2, Message: err.Error()}
		}
		file, err := config.Load(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
		if err != nil {
			return apis.Config{}, &cli.ExitError{Code: 2, Message: err.Error()}
		}
		fileOpts, err := file.Options(errW)
		if err != nil {
			return apis.Config{}, &cli.ExitError{Code: 2, Message: err.Error()}
		}
		cfgOpts = append(cfgOpts, fileOpts...)
	}

	cfgOpts = append(cfgOpts, opts.Overrides...)

	if opts.LogLevel != "" || opts.LogFormat != "" {
		l, err := logging.New(opts.LogLevel, opts.LogFormat, errW)
		if err != nil {
			return apis.Config{}, &cli.ExitError{Code: 2, Message: err.Error()}
		}
		cfgOpts = append(cfgOpts, config.WithLogger(l))
	}

	return config.NewConfig(cfgOpts...), nil
}

// resolveAll resolves names concurrently. Results keep the order of names.
func resolveAll(chain *resolver.Chain, names []string) []result {
	eng := chain.Runner().Engine()
	enc, _ := eng.(apis.Encoder)

	results := make([]result, len(names))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			results[i] = resolveOne(chain, eng, enc, name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func resolveOne(chain *resolver.Chain, eng apis.Engine, enc apis.Encoder, name string) result {
	v, err := chain.ResolveErr(name)
	if err != nil {
		return result{Name: name, Error: err.Error()}
	}
	defer eng.Free(v)

	if enc == nil {
		return result{Name: name, Error: fmt.Sprintf("engine %T cannot encode values", eng)}
	}
	js, err := enc.EncodeJSON(v)
	if err != nil {
		return result{Name: name, Error: err.Error()}
	}
	return result{Name: name, Value: js}
}

func write(w io.Writer, format string, results []result) error {
	if format == cli.FormatYAML {
		return writeYAML(w, results)
	}
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

// yamlResult mirrors result with the value as a YAML node.
type yamlResult struct {
	Name  string     `yaml:"name"`
	Value *yaml.Node `yaml:"value,omitempty"`
	Error string     `yaml:"error,omitempty"`
}

func writeYAML(w io.Writer, results []result) error {
	docs := make([]yamlResult, len(results))
	for i, r := range results {
		docs[i] = yamlResult{Name: r.Name, Error: r.Error}
		if r.Value == nil {
			continue
		}
		// JSON is valid YAML, so the encoded value parses directly.
		var doc yaml.Node
		if err := yaml.Unmarshal(r.Value, &doc); err != nil {
			return fmt.Errorf("convert %q to yaml: %w", r.Name, err)
		}
		if len(doc.Content) > 0 {
			docs[i].Value = blockStyle(doc.Content[0])
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles JSON input leaves on the
// nodes. The encoder then quotes only scalars that need it.
func blockStyle(n *yaml.Node) *yaml.Node {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
	return n
}

func writeStats(w io.Writer, s resolver.Stats) {
	fmt.Fprintf(w, "hits=%d misses=%d claims=%d failures=%d not_found=%d\n",
		s.Hits, s.Misses, s.Claims, s.Failures, s.NotFound)
}
