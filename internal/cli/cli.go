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

package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"dirpx.dev/mload/config"
	"dirpx.dev/mload/utils/logging"
)

// Output formats accepted by -format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Options is the parsed command line.
type Options struct {
	// ConfigPath is the optional YAML configuration file.
	ConfigPath string
	// Names are the modules to resolve, in output order.
	Names []string
	// Format is the output format.
	Format string
	// Stats prints resolution counters after the run.
	Stats bool
	// LogLevel and LogFormat configure the logger when either is set.
	LogLevel  string
	LogFormat string

	// Overrides holds the options for flags given explicitly. They are
	// applied after the configuration file.
	Overrides []config.Option
}

// Parse processes command-line arguments. It returns the parsed Options,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mload", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
mload - resolve modules through the native registry and module files.

Usage:
  mload [options] NAME...

Arguments:
  NAME
    Module name. Native modules are plain names such as "math"; files are
    paths relative to the root such as "./util.cue".

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a YAML configuration file.")
	rootFlag := flagSet.String("root", config.DefaultRoot, "Directory module files are resolved against.")
	engineFlag := flagSet.String("engine", config.DefaultEngine, "Host engine. Options: 'cue', 'hcl', 'handle'.")
	extFlag := flagSet.String("ext", "", "Comma-separated module file extensions. Defaults to the engine's extension.")
	formatFlag := flagSet.String("format", FormatJSON, "Output format. Options: 'json' or 'yaml'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	statsFlag := flagSet.Bool("stats", false, "Print resolution counters to stderr.")
	noNativeFlag := flagSet.Bool("no-native", false, "Do not consult compiled-in modules.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No module names provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "at least one module name is required"}
	}

	format := strings.ToLower(*formatFlag)
	if format != FormatJSON && format != FormatYAML {
		return nil, false, &ExitError{Code: 2, Message: "invalid format: must be 'json' or 'yaml'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", logging.FormatText, logging.FormatJSON:
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	if _, err := logging.ParseLevel(*logLevelFlag); err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	opts := &Options{
		ConfigPath: *configFlag,
		Names:      flagSet.Args(),
		Format:     format,
		Stats:      *statsFlag,
		LogLevel:   strings.ToLower(*logLevelFlag),
		LogFormat:  logFormat,
	}

	var parseErr error
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "root":
			opts.Overrides = append(opts.Overrides, config.WithRoot(*rootFlag))
		case "engine":
			switch *engineFlag {
			case config.EngineCUE, config.EngineHCL, config.EngineHandle:
				opts.Overrides = append(opts.Overrides, config.WithEngine(*engineFlag))
			default:
				parseErr = &ExitError{Code: 2, Message: fmt.Sprintf("invalid engine %q: must be 'cue', 'hcl' or 'handle'", *engineFlag)}
			}
		case "ext":
			exts, err := splitExtensions(*extFlag)
			if err != nil {
				parseErr = err
				return
			}
			opts.Overrides = append(opts.Overrides, config.WithExtensions(exts...))
		case "no-native":
			opts.Overrides = append(opts.Overrides, config.WithNative(!*noNativeFlag))
		}
	})
	if parseErr != nil {
		return nil, false, parseErr
	}

	slog.Debug("CLI parser finished successfully.", "names", len(opts.Names))
	return opts, false, nil
}

func splitExtensions(s string) ([]string, error) {
	var out []string
	for _, ext := range strings.Split(s, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	if len(out) == 0 {
		return nil, &ExitError{Code: 2, Message: "invalid ext: at least one extension is required"}
	}
	return out, nil
}
