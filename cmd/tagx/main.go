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

// tagx inspects tag hierarchies declared in YAML, JSON or HCL documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"dirpx.dev/tagx"
	"dirpx.dev/tagx/apis"
	"dirpx.dev/tagx/builder"
	"dirpx.dev/tagx/config"
	"dirpx.dev/tagx/internal/ctxlog"
	"dirpx.dev/tagx/provider/document"
	"dirpx.dev/tagx/registry"
)

// ExitError is a custom error type that includes a specific exit code.
// An empty Message exits silently.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed global flags.
type options struct {
	files    multiFlag
	reserve  multiFlag
	patterns multiFlag
	root     string
	format   string
	logLevel string
	logFmt   string
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tagx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, `
tagx - inspect tag extension hierarchies.

Usage:
  tagx [options] deps TYPE
  tagx [options] is TYPE ANCESTOR
  tagx [options] get INSTANCE ANCESTOR ACCESSOR
  tagx [options] graph

Options:
`)
		fs.PrintDefaults()
	}

	var o options
	fs.Var(&o.files, "f", "hierarchy document or directory (repeatable)")
	fs.Var(&o.reserve, "reserve", "reserved namespace prefix (repeatable)")
	fs.Var(&o.patterns, "pattern", "reserved namespace pattern, gitignore syntax (repeatable)")
	fs.StringVar(&o.root, "root", config.DefaultRoot.String(), "root marker type")
	fs.StringVar(&o.format, "format", "text", "output format: text, json or yaml")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.StringVar(&o.logFmt, "log-format", "text", "log format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return &ExitError{Code: 2}
	}

	enc, err := newEncoder(o.format, stdout)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	logger, err := newLogger(o.logLevel, o.logFmt, stderr)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	root, err := apis.ParseTypeID(o.root)
	if err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid -root %q: %v", o.root, err)}
	}
	if len(o.files) == 0 {
		return &ExitError{Code: 2, Message: "no hierarchy documents given (-f)"}
	}

	ctx := ctxlog.WithLogger(context.Background(), logger)
	set, err := document.Load(ctx, root, o.files...)
	if err != nil {
		return err
	}

	cfg := config.NewConfig(
		config.WithRoot(root),
		config.WithReservedNamespaces(o.reserve...),
		config.WithReservedPatterns(o.patterns...),
		config.WithLogger(logger),
	)
	tagx.SetAll(&cfg, nil, set.Provider, registry.New(cfg), nil, builder.New())
	logger.Debug("Hierarchy loaded.", "types", len(set.Provider.Types()), "instances", len(set.Instances))

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "deps":
		return cmdDeps(rest, enc)
	case "is":
		return cmdIs(rest, enc)
	case "get":
		return cmdGet(rest, set, enc)
	case "graph":
		return cmdGraph(rest, set, enc)
	}
	return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cmd)}
}

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", levelStr)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(formatStr) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	}
	return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", formatStr)
}
