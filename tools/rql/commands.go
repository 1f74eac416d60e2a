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


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/davecgh/go-spew/spew"
	"github.com/ebay/micrordb/api"
	"github.com/ebay/micrordb/config"
	"github.com/ebay/micrordb/query"
	"github.com/ebay/micrordb/query/dot"
	"github.com/ebay/micrordb/query/inventory"
	"github.com/ebay/micrordb/query/lexer"
	"github.com/ebay/micrordb/util/graphviz"
	"github.com/ebay/micrordb/util/table"
	log "github.com/sirupsen/logrus"
)

// stdio holds the streams the subcommands read and write.
type stdio struct {
	in  io.Reader
	out io.Writer
	// If not nil, check draws a progress bar here.
	err io.Writer
}

// errCheckFailed is returned by check after it has reported the programs that
// didn't compile.
var errCheckFailed = errors.New("some programs failed to compile")

// readProgram returns the contents of the named file, or of std.in for "-".
func readProgram(filename string, std *stdio) (string, error) {
	if filename == "-" {
		b, err := io.ReadAll(std.in)
		if err != nil {
			return "", fmt.Errorf("unable to read standard input: %v", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func compileFile(ctx context.Context, options *options, std *stdio) (*query.Result, error) {
	text, err := readProgram(options.Files[0], std)
	if err != nil {
		return nil, err
	}
	return query.Compile(ctx, text)
}

func tokens(options *options, std *stdio) error {
	text, err := readProgram(options.Files[0], std)
	if err != nil {
		return err
	}
	toks, err := lexer.Lex(text)
	if err != nil {
		return err
	}
	if options.Echo {
		texts := make([]string, len(toks))
		for i, tok := range toks {
			texts[i] = tok.Text
		}
		_, err := fmt.Fprintln(std.out, strings.Join(texts, " "))
		return err
	}
	t := [][]string{{"line", "kind", "text"}}
	for _, tok := range toks {
		t = append(t, []string{fmtr.Sprintf("%d", tok.Line), tok.Kind.String(), tok.Text})
	}
	return table.PrettyPrint(std.out, t, table.HeaderRow)
}

// spewConfig prints syntax trees without pointer addresses so that dumps of
// the same program are identical.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func parse(ctx context.Context, options *options, std *stdio) error {
	res, err := compileFile(ctx, options, std)
	if err != nil {
		return err
	}
	if options.Dump {
		spewConfig.Fdump(std.out, res.Script)
		return nil
	}
	_, err = fmt.Fprintln(std.out, res.Script.String())
	return err
}

// outputFiletype picks the image format for 'rql dot -o'. The configured
// format wins, then the filename's extension, then PDF.
func outputFiletype(cfg *config.MicroRDB, filename string) graphviz.Filetype {
	if cfg.Graphviz != nil && cfg.Graphviz.Format != "" {
		if ft, err := graphviz.ParseFiletype(cfg.Graphviz.Format); err == nil {
			return ft
		}
	}
	if ft, err := graphviz.ParseFiletype(strings.TrimPrefix(filepath.Ext(filename), ".")); err == nil {
		return ft
	}
	return graphviz.PDF
}

func dotCmd(ctx context.Context, options *options, cfg *config.MicroRDB, std *stdio) error {
	res, err := compileFile(ctx, options, std)
	if err != nil {
		return err
	}
	text, err := dot.Generate(res.Script)
	if err != nil {
		return err
	}
	if options.Output == "" {
		_, err := io.WriteString(std.out, text)
		return err
	}
	ft := outputFiletype(cfg, options.Output)
	log.WithFields(log.Fields{
		"output": options.Output,
		"format": ft,
	}).Debug("Rendering syntax tree")
	return graphviz.Create(options.Output, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	}, graphviz.Options{Filetype: ft})
}

func tables(ctx context.Context, options *options, std *stdio) error {
	res, err := compileFile(ctx, options, std)
	if err != nil {
		return err
	}
	inv := inventory.Build(res.Script)
	return table.PrettyPrint(std.out, inv.Rows(), table.HeaderRow)
}

// check compiles every file, reports the ones that fail, and prints a summary.
// It returns errCheckFailed if any file failed.
func check(ctx context.Context, options *options, std *stdio) error {
	units := make([]query.Unit, len(options.Files))
	for i, filename := range options.Files {
		text, err := readProgram(filename, std)
		if err != nil {
			return err
		}
		units[i] = query.Unit{Name: filename, Text: text}
	}
	batch := query.BatchOptions{Workers: options.Jobs}
	var bar *pb.ProgressBar
	if std.err != nil {
		bar = pb.New(len(units)).Prefix("Checking ")
		bar.Output = std.err
		bar.SetMaxWidth(100)
		bar.ShowCounters = true
		bar.Start()
		batch.Done = func(query.Outcome) { bar.Increment() }
	}
	outcomes, err := query.CompileAll(ctx, units, batch)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	statements, failed := 0, 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(std.out, "%s:%d: %v\n", o.Unit.Name, query.ErrorLine(o.Err), o.Err)
			continue
		}
		statements += len(o.Result.Script.Statements)
	}
	fmtr.Fprintf(std.out, "%d programs, %d statements, %d failed\n", len(outcomes), statements, failed)
	if failed > 0 {
		return errCheckFailed
	}
	return nil
}

func serve(ctx context.Context, options *options, cfg *config.MicroRDB) error {
	apiCfg := cfg.API.WithDefaults()
	if options.HTTPAddress != "" {
		apiCfg.HTTPAddress = options.HTTPAddress
	}
	return api.New(&apiCfg).Run(ctx)
}

// writeConfig writes cfg to options.Output with every API default filled in,
// so the file shows the settings serve would run with.
func writeConfig(options *options, cfg *config.MicroRDB) error {
	effective := *cfg
	apiCfg := cfg.API.WithDefaults()
	effective.API = &apiCfg
	if err := config.Write(&effective, options.Output); err != nil {
		return err
	}
	log.WithField("output", options.Output).Info("Wrote configuration")
	return nil
}
