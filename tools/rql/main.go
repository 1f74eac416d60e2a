// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Command rql lexes, parses, checks and renders micrordb programs, and can
// serve the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	docopt "github.com/docopt/docopt-go"
	"github.com/ebay/micrordb/config"
	"github.com/ebay/micrordb/query"
	"github.com/ebay/micrordb/util/debuglog"
	"github.com/ebay/micrordb/util/tracing"
	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var fmtr = message.NewPrinter(language.English)

const usage = `rql is a command-line tool for checking and inspecting micrordb programs.

Usage:
  rql [-v --config=CFG] tokens [--echo] [FILE]
  rql [-v --config=CFG] parse [--dump] [FILE]
  rql [-v --config=CFG] dot [-o=OUT] [FILE]
  rql [-v --config=CFG] tables [FILE]
  rql [-v --config=CFG] check [-j=NUM] FILE...
  rql [-v --config=CFG] serve [--http=ADDR]
  rql [-v --config=CFG] config -o=OUT

Options:
  -v, --verbose            Enable debug logging.
  --config=CFG             Read settings from this JSON configuration file.
  --echo                   Print the token texts on one line, separated by spaces.
  --dump                   Print the syntax tree's Go structure instead of the program text.
  -o=OUT, --output=OUT     For dot, render the syntax tree into this PDF, PNG or SVG file instead of
                           printing DOT. For config, the file to write the effective configuration to.
  -j=NUM, --jobs=NUM       Number of programs to compile concurrently [default: 4].
  --http=ADDR              Serve HTTP on this address instead of the configured one.

A FILE of "-" or no FILE reads the program from standard input.

Examples:
  # Show the tokens of a program.
  echo 'emp ? salary > 1000;' | rql tokens

  # Render the syntax tree of a program with Graphviz.
  rql dot -o tree.svg payroll.rql

  # Check many programs, four at a time.
  rql check -j 4 scripts/*.rql

  # Write out the settings serve would use, defaults included.
  rql --config=prod.json config -o effective.json
`

type options struct {
	Verbose    bool   `docopt:"--verbose"`
	ConfigFile string `docopt:"--config"`

	// Tokens
	Tokens bool `docopt:"tokens"`
	Echo   bool `docopt:"--echo"`

	// Parse
	Parse bool `docopt:"parse"`
	Dump  bool `docopt:"--dump"`

	// Dot
	Dot    bool   `docopt:"dot"`
	Output string `docopt:"--output"`

	// Tables
	Tables bool `docopt:"tables"`

	// Check
	Check      bool   `docopt:"check"`
	Jobs       int
	JobsString string `docopt:"--jobs"`

	// Serve
	Serve       bool   `docopt:"serve"`
	HTTPAddress string `docopt:"--http"`

	// Config
	WriteConfig bool `docopt:"config"`

	Files []string `docopt:"FILE"`
}

// parseArgs parses the command line. A nil argv means os.Args[1:].
func parseArgs(argv []string) (*options, error) {
	opts, err := docopt.DefaultParser.ParseArgs(usage, argv, "")
	if err != nil {
		return nil, err
	}
	var options options
	err = opts.Bind(&options)
	if err != nil {
		return nil, fmt.Errorf("error binding command-line arguments: %v\nfrom: %+v", err, opts)
	}
	if options.JobsString != "" {
		options.Jobs, err = strconv.Atoi(options.JobsString)
		if err != nil || options.Jobs < 1 {
			return nil, fmt.Errorf("jobs must be a positive integer, got %q", options.JobsString)
		}
	}
	if len(options.Files) == 0 {
		options.Files = []string{"-"}
	}
	return &options, nil
}

func main() {
	options, err := parseArgs(nil)
	if err != nil {
		log.Fatalf("Error parsing command-line arguments: %v", err)
	}
	debuglog.Configure(debuglog.Options{Verbose: options.Verbose})

	cfg := new(config.MicroRDB)
	if options.ConfigFile != "" {
		cfg, err = config.Load(options.ConfigFile)
		if err != nil {
			log.Fatalf("Unable to load configuration: %v", err)
		}
	}
	tracer, err := tracing.New("rql", cfg.Tracing)
	if err != nil {
		log.WithError(err).Warn("Could not initialize OpenTracing tracer")
		tracer = nil
	}

	ctx := context.Background()
	if options.Serve {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}
	span, ctx := opentracing.StartSpanFromContext(ctx, "rql run")
	err = run(ctx, options, cfg, &stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	span.Finish()
	if tracer != nil {
		tracer.Close()
	}
	switch {
	case err == nil:
	case errors.Is(err, errCheckFailed):
		os.Exit(1)
	case query.ErrorLine(err) > 0:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	default:
		log.Fatalf("Error executing command: %v", err)
	}
}

// run executes the subcommand chosen in options.
func run(ctx context.Context, options *options, cfg *config.MicroRDB, std *stdio) error {
	switch {
	case options.Tokens:
		return tokens(options, std)
	case options.Parse:
		return parse(ctx, options, std)
	case options.Dot:
		return dotCmd(ctx, options, cfg, std)
	case options.Tables:
		return tables(ctx, options, std)
	case options.Check:
		return check(ctx, options, std)
	case options.Serve:
		return serve(ctx, options, cfg)
	case options.WriteConfig:
		return writeConfig(options, cfg)
	}
	return errors.New("command not implemented")
}
