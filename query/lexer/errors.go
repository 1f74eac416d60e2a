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

package lexer

import "fmt"

// ErrorKind classifies lexical failures.
type ErrorKind int

// The possible values of ErrorKind.
const (
	// UnknownCharacter indicates a character that can't start any token.
	UnknownCharacter ErrorKind = iota + 1
	// UnterminatedString indicates a '"' with no closing '"' before the end
	// of the input.
	UnterminatedString
	// IntegerOutOfRange indicates an integer literal that doesn't fit in a
	// signed 32-bit integer.
	IntegerOutOfRange
	// DanglingMinus indicates a '-' that must be the sign of a number but
	// isn't followed by a digit.
	DanglingMinus
	// FloatOutOfRange indicates a float literal too large for a float64.
	FloatOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownCharacter:
		return "UnknownCharacter"
	case UnterminatedString:
		return "UnterminatedString"
	case IntegerOutOfRange:
		return "IntegerOutOfRange"
	case DanglingMinus:
		return "DanglingMinus"
	case FloatOutOfRange:
		return "FloatOutOfRange"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error describes why and where Lex failed.
type Error struct {
	Kind ErrorKind
	// Line is the 1-based line number of the offending text. For
	// UnterminatedString it is the line of the opening quote.
	Line int
	// Column is the 1-based position in runes of the offending text within
	// Line.
	Column int
	// Text is the offending source text.
	Text string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexer: line %d column %d: %s", e.Line, e.Column, e.details())
}

func (e *Error) details() string {
	switch e.Kind {
	case UnknownCharacter:
		return fmt.Sprintf("invalid character %q", e.Text)
	case UnterminatedString:
		return fmt.Sprintf("unterminated string %s", e.Text)
	case IntegerOutOfRange:
		return fmt.Sprintf("the integer %s is out of 32 bit int range", e.Text)
	case DanglingMinus:
		return fmt.Sprintf("'-' must be followed by a digit, got %q", e.Text)
	case FloatOutOfRange:
		return fmt.Sprintf("the float %s is out of 64 bit float range", e.Text)
	default:
		return fmt.Sprintf("%v at %q", e.Kind, e.Text)
	}
}
