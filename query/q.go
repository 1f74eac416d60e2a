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


// Package query provides a high level entry point for compiling micrordb
// programs. It runs the lexer and the parser, records metrics and tracing spans
// for both, and can compile many programs concurrently.
package query

import (
	"context"
	"errors"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/ebay/micrordb/query/ast"
	"github.com/ebay/micrordb/query/lexer"
	"github.com/ebay/micrordb/query/parser"
	"github.com/ebay/micrordb/query/token"
	"github.com/ebay/micrordb/util/parallel"
	"github.com/ebay/micrordb/util/tracing"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Result is a successfully compiled program.
type Result struct {
	// The syntax tree.
	Script *ast.Script
	// The tokens the tree was built from.
	Tokens []token.Token
	// The xxhash of the program text. Equal texts have equal fingerprints.
	Fingerprint uint64
}

// Fingerprint returns the fingerprint Compile would assign to text.
func Fingerprint(text string) uint64 {
	return xxhash.Sum64String(text)
}

// Compile lexes and parses a program. The returned error is a *lexer.Error or
// one of the errors returned by parser.Parse; ErrorLine extracts its line.
func Compile(ctx context.Context, text string) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "compile program")
	tracing.UpdateMetric(span, metrics.compileDurationSeconds)
	defer span.Finish()

	lexSpan, _ := opentracing.StartSpanFromContext(ctx, "lex program")
	tracing.UpdateMetric(lexSpan, metrics.lexDurationSeconds)
	tokens, err := lexer.Lex(text)
	lexSpan.Finish()
	if err != nil {
		metrics.compilesTotal.WithLabelValues(outcomeLexError).Inc()
		span.SetTag("error", true)
		return nil, err
	}

	parseSpan, _ := opentracing.StartSpanFromContext(ctx, "parse program")
	tracing.UpdateMetric(parseSpan, metrics.parseDurationSeconds)
	script, err := parser.Parse(tokens)
	parseSpan.Finish()
	if err != nil {
		metrics.compilesTotal.WithLabelValues(outcomeParseError).Inc()
		span.SetTag("error", true)
		return nil, err
	}
	metrics.compilesTotal.WithLabelValues(outcomeOK).Inc()
	metrics.statementsPerProgram.Observe(float64(len(script.Statements)))
	return &Result{
		Script:      script,
		Tokens:      tokens,
		Fingerprint: Fingerprint(text),
	}, nil
}

// ErrorLine returns the 1-based source line of an error returned by Compile,
// or 0 if the error doesn't carry one.
func ErrorLine(err error) int {
	var lexErr *lexer.Error
	var tokenErr *parser.UnexpectedTokenError
	var endErr *parser.UnexpectedEndError
	var litErr *parser.InvalidLiteralError
	switch {
	case errors.As(err, &lexErr):
		return lexErr.Line
	case errors.As(err, &tokenErr):
		return tokenErr.Got.Line
	case errors.As(err, &endErr):
		return endErr.Line
	case errors.As(err, &litErr):
		return litErr.Token.Line
	}
	return 0
}

// Unit is one named program to compile with CompileAll.
type Unit struct {
	// Identifies the program in logs and outcomes, such as a filename.
	Name string
	Text string
}

// Outcome is the result of compiling one Unit. Exactly one of Result and Err
// is set.
type Outcome struct {
	Unit   Unit
	Result *Result
	Err    error
}

// BatchOptions control CompileAll.
type BatchOptions struct {
	// The maximum number of programs compiled at once. Values below 1 mean 1.
	Workers int
	// If not nil, called once for each finished Unit, in completion order.
	// Calls are serialized.
	Done func(Outcome)
}

// CompileAll compiles every unit, running up to opts.Workers compiles at
// once. A unit that fails to compile doesn't stop the others. The returned
// outcomes are in the same order as units. An error is returned only if ctx
// is canceled first, in which case some outcomes may have neither Result nor
// Err set.
func CompileAll(ctx context.Context, units []Unit, opts BatchOptions) ([]Outcome, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "compile batch")
	span.SetTag("units", len(units))
	defer span.Finish()

	outcomes := make([]Outcome, len(units))
	for i := range units {
		outcomes[i].Unit = units[i]
	}
	var doneLock sync.Mutex
	err := parallel.InvokeLimit(ctx, len(units), opts.Workers, func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := Compile(ctx, units[i].Text)
		outcomes[i].Result, outcomes[i].Err = res, err
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"unit":  units[i].Name,
				"line":  ErrorLine(err),
				"error": err,
			}).Debug("Program failed to compile")
		}
		if opts.Done != nil {
			doneLock.Lock()
			opts.Done(outcomes[i])
			doneLock.Unlock()
		}
		return nil
	})
	return outcomes, err
}
