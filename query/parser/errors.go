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

package parser

import (
	"fmt"
	"strings"

	"github.com/ebay/micrordb/query/token"
)

// UnexpectedTokenError is returned when the next token doesn't fit the
// production being parsed.
type UnexpectedTokenError struct {
	// Expected lists the kinds of token that would have been accepted.
	Expected []token.Kind
	// Got is the offending token. Its Line is where the error occurred.
	Got token.Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("parser: line %d: expected %s, got %v",
		e.Got.Line, expectedText(e.Expected), e.Got)
}

// UnexpectedEndError is returned when the tokens run out in the middle of a
// production.
type UnexpectedEndError struct {
	// Expected lists the kinds of token that would have been accepted.
	Expected []token.Kind
	// Line is the line of the last token.
	Line int
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("parser: line %d: unexpected end of input, expected %s",
		e.Line, expectedText(e.Expected))
}

// InvalidLiteralError is returned when a literal token is well formed but its
// value can't be used where it appears.
type InvalidLiteralError struct {
	// Token is the offending literal. Its Line is where the error occurred.
	Token token.Token
	// Reason describes what is wrong with the value.
	Reason string
}

func (e *InvalidLiteralError) Error() string {
	return fmt.Sprintf("parser: line %d: invalid %v: %s", e.Token.Line, e.Token, e.Reason)
}

func expectedText(kinds []token.Kind) string {
	if len(kinds) == 1 {
		return kinds[0].String()
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return "one of [" + strings.Join(names, ", ") + "]"
}
