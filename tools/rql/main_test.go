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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	docopt "github.com/docopt/docopt-go"
	"github.com/ebay/micrordb/config"
	"github.com/ebay/micrordb/query/lexer"
	"github.com/ebay/micrordb/util/graphviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseArgs(t *testing.T) {
	var tests = []struct {
		name         string
		inputArgv    []string
		expValidArgs bool
		check        func(t *testing.T, opts *options)
	}{
		{
			name:         "tokens_stdin",
			inputArgv:    []string{"tokens"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.Tokens)
				assert.False(t, opts.Echo)
				assert.Equal(t, []string{"-"}, opts.Files)
			},
		}, {
			name:         "tokens_echo",
			inputArgv:    []string{"-v", "tokens", "--echo", "a.rql"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.Verbose)
				assert.True(t, opts.Echo)
				assert.Equal(t, []string{"a.rql"}, opts.Files)
			},
		}, {
			name:         "parse_dump",
			inputArgv:    []string{"--config", "c.json", "parse", "--dump", "-"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.Parse)
				assert.True(t, opts.Dump)
				assert.Equal(t, "c.json", opts.ConfigFile)
				assert.Equal(t, []string{"-"}, opts.Files)
			},
		}, {
			name:         "dot_output",
			inputArgv:    []string{"dot", "-o", "tree.svg", "a.rql"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.Dot)
				assert.Equal(t, "tree.svg", opts.Output)
			},
		}, {
			name:         "check_default_jobs",
			inputArgv:    []string{"check", "a.rql", "b.rql"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.Check)
				assert.Equal(t, 4, opts.Jobs)
				assert.Equal(t, []string{"a.rql", "b.rql"}, opts.Files)
			},
		}, {
			name:         "check_jobs",
			inputArgv:    []string{"check", "-j", "16", "a.rql"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.Equal(t, 16, opts.Jobs)
			},
		}, {
			name:         "serve",
			inputArgv:    []string{"serve", "--http", ":8080"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.Serve)
				assert.Equal(t, ":8080", opts.HTTPAddress)
			},
		}, {
			name:         "config",
			inputArgv:    []string{"--config", "in.json", "config", "-o", "out.json"},
			expValidArgs: true,
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.WriteConfig)
				assert.Equal(t, "in.json", opts.ConfigFile)
				assert.Equal(t, "out.json", opts.Output)
			},
		}, {
			name:         "config_needs_output",
			inputArgv:    []string{"config"},
			expValidArgs: false,
		}, {
			name:         "check_needs_files",
			inputArgv:    []string{"check"},
			expValidArgs: false,
		}, {
			name:         "tables_one_file",
			inputArgv:    []string{"tables", "a.rql", "b.rql"},
			expValidArgs: false,
		}, {
			name:         "unknown_command",
			inputArgv:    []string{"unknown"},
			expValidArgs: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var parseErr error
			docopt.DefaultParser.HelpHandler = func(err error, usage string) {
				parseErr = err
			}
			opts, err := parseArgs(test.inputArgv)
			if !test.expValidArgs {
				assert.Error(t, err)
				assert.Error(t, parseErr)
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, parseErr)
			if assert.NotNil(t, opts) {
				test.check(t, opts)
			}
		})
	}
}

func Test_parseArgs_badJobs(t *testing.T) {
	docopt.DefaultParser.HelpHandler = func(err error, usage string) {}
	_, err := parseArgs([]string{"check", "-j", "0", "a.rql"})
	assert.EqualError(t, err, `jobs must be a positive integer, got "0"`)
	_, err = parseArgs([]string{"check", "-j", "many", "a.rql"})
	assert.EqualError(t, err, `jobs must be a positive integer, got "many"`)
}

// runWith runs the options against the given program on standard input and
// returns what was written to standard output.
func runWith(t *testing.T, opts *options, program string) (string, error) {
	if len(opts.Files) == 0 {
		opts.Files = []string{"-"}
	}
	var out bytes.Buffer
	std := &stdio{in: strings.NewReader(program), out: &out}
	err := run(context.Background(), opts, new(config.MicroRDB), std)
	return out.String(), err
}

func Test_tokens(t *testing.T) {
	out, err := runWith(t, &options{Tokens: true}, "t ~;")
	require.NoError(t, err)
	assert.Equal(t, `
 line | kind       | text |
 ---- | ---------- | ---- |
 1    | identifier | t    |
 1    | tilde      | ~    |
 1    | semicolon  | ;    |
`, "\n"+out)

	out, err = runWith(t, &options{Tokens: true, Echo: true}, "t <- 1,\n\"a b\";")
	require.NoError(t, err)
	assert.Equal(t, "t <- 1 , a b ;\n", out)

	_, err = runWith(t, &options{Tokens: true}, "t ~ $")
	var lexErr *lexer.Error
	assert.ErrorAs(t, err, &lexErr)
}

func Test_parse(t *testing.T) {
	out, err := runWith(t, &options{Parse: true}, "t<-1*2+3;u~;")
	require.NoError(t, err)
	assert.Equal(t, "t <- ((1 * 2) + 3);\nu ~;\n", out)

	out, err = runWith(t, &options{Parse: true, Dump: true}, "u ~;")
	require.NoError(t, err)
	assert.Contains(t, out, "(*ast.Drop)")
	assert.Contains(t, out, `"u"`)

	_, err = runWith(t, &options{Parse: true}, "u ~")
	assert.EqualError(t, err, "parser: line 1: unexpected end of input, expected semicolon")
}

func Test_dot(t *testing.T) {
	out, err := runWith(t, &options{Dot: true}, "t ~;")
	require.NoError(t, err)
	g, err := graphviz.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "G", g.Name)
	assert.Len(t, g.Nodes, 2)
	assert.Equal(t, []string{"node1"}, g.Children("node0"))

	out, err = runWith(t, &options{Dot: true}, `t <- "dir\";`)
	require.NoError(t, err)
	g, err = graphviz.Parse(out)
	require.NoError(t, err)
	label, ok := g.Label("node3")
	assert.True(t, ok)
	assert.Equal(t, `chars literal\ndir\\`, label)
}

func Test_tables(t *testing.T) {
	out, err := runWith(t, &options{Tables: true}, "a <- 1; a ? x;")
	require.NoError(t, err)
	assert.Equal(t, `
 table | created | dropped | inserted | updated | deleted | read |
 ----- | ------- | ------- | -------- | ------- | ------- | ---- |
 a     | 0       | 0       | 1        | 0       | 0       | 1    |
`, "\n"+out)
}

func Test_check(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		filename := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
		return filename
	}
	good := write("good.rql", "t = a: int;\nt <- 1;\nt ~;")
	bad := write("bad.rql", "t ~;\n$")
	var out bytes.Buffer
	std := &stdio{out: &out}

	err := check(context.Background(), &options{Check: true, Jobs: 2, Files: []string{good, good}}, std)
	assert.NoError(t, err)
	assert.Equal(t, "2 programs, 6 statements, 0 failed\n", out.String())

	out.Reset()
	err = check(context.Background(), &options{Check: true, Jobs: 2, Files: []string{good, bad}}, std)
	assert.Equal(t, errCheckFailed, err)
	assert.Equal(t, bad+`:2: lexer: line 2 column 1: invalid character "$"`+"\n"+
		"2 programs, 3 statements, 1 failed\n", out.String())

	out.Reset()
	err = check(context.Background(), &options{Check: true, Files: []string{filepath.Join(dir, "404.rql")}}, std)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "404.rql")
	}
}

func Test_outputFiletype(t *testing.T) {
	tests := []struct {
		format   string
		filename string
		exp      graphviz.Filetype
	}{
		{"", "tree.svg", graphviz.SVG},
		{"", "tree.PNG", graphviz.PNG},
		{"", "tree", graphviz.PDF},
		{"", "tree.gif", graphviz.PDF},
		{"png", "tree.svg", graphviz.PNG},
	}
	for _, test := range tests {
		t.Run(test.format+"/"+test.filename, func(t *testing.T) {
			cfg := &config.MicroRDB{Graphviz: &config.Graphviz{Format: test.format}}
			assert.Equal(t, test.exp, outputFiletype(cfg, test.filename))
		})
	}
	assert.Equal(t, graphviz.SVG, outputFiletype(new(config.MicroRDB), "x.svg"))
}

func Test_writeConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "effective.json")
	cfg := &config.MicroRDB{
		API:      &config.API{CacheSize: -1},
		Graphviz: &config.Graphviz{Format: "svg"},
	}
	opts := &options{WriteConfig: true, Output: filename}
	require.NoError(t, run(context.Background(), opts, cfg, &stdio{}))

	loaded, err := config.Load(filename)
	require.NoError(t, err)
	assert.Equal(t, &config.API{
		HTTPAddress:  config.DefaultHTTPAddress,
		CacheSize:    -1,
		MaxBodyBytes: config.DefaultMaxBodyBytes,
	}, loaded.API)
	assert.Equal(t, cfg.Graphviz, loaded.Graphviz)
	assert.Nil(t, loaded.Tracing)
	assert.Equal(t, &config.API{CacheSize: -1}, cfg.API, "input config should be left alone")
}

func Test_run_noCommand(t *testing.T) {
	_, err := runWith(t, &options{}, "")
	assert.EqualError(t, err, "command not implemented")
}
