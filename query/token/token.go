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

// Package token defines the lexical units of the micrordb query language.
package token

import "fmt"

// Kind identifies the type of a Token.
type Kind int

// The possible values of Kind. Literals come first, then keywords, operators
// and punctuation.
const (
	Identifier Kind = iota
	IntLiteral
	FloatLiteral
	CharsLiteral
	KwFalse
	KwTrue

	KwInt
	KwFloat
	KwBool
	KwChars

	OpLogicalAnd          // &&
	OpLogicalOr           // ||
	OpEquals              // ==
	OpNotEquals           // !=
	OpLessThan            // <
	OpLessThanOrEquals    // <=
	OpGreaterThan         // >
	OpGreaterThanOrEquals // >=
	OpMinus               // -
	OpPlus                // +
	OpMultiply            // *
	OpDivide              // /
	OpModulus             // %

	At               // @
	OpAssign         // =
	ExclamationPoint // !
	QuestionMark     // ?
	OpWalrus         // :=
	ArrowLeft        // <-
	ArrowRight       // ->
	OpUnion          // |
	OpIntersect      // &
	OpJoin           // ^
	OpenParen        // (
	CloseParen       // )
	Comma            // ,
	Dot              // .
	Colon            // :
	Semicolon        // ;
	Tilde            // ~
)

var kindNames = [...]string{
	Identifier:   "identifier",
	IntLiteral:   "integer literal",
	FloatLiteral: "float literal",
	CharsLiteral: "characters literal",
	KwFalse:      "false keyword",
	KwTrue:       "true keyword",

	KwInt:   "int keyword",
	KwFloat: "float keyword",
	KwBool:  "bool keyword",
	KwChars: "chars keyword",

	OpLogicalAnd:          "logical and",
	OpLogicalOr:           "logical or",
	OpEquals:              "equals",
	OpNotEquals:           "not equals",
	OpLessThan:            "less than",
	OpLessThanOrEquals:    "less than or equals",
	OpGreaterThan:         "greater than",
	OpGreaterThanOrEquals: "greater than or equals",
	OpMinus:               "minus",
	OpPlus:                "plus",
	OpMultiply:            "multiply",
	OpDivide:              "divide",
	OpModulus:             "modulus",

	At:               "at symbol",
	OpAssign:         "assignment",
	ExclamationPoint: "exclamation point",
	QuestionMark:     "question mark",
	OpWalrus:         "walrus operator",
	ArrowLeft:        "left arrow",
	ArrowRight:       "right arrow",
	OpUnion:          "union",
	OpIntersect:      "intersection",
	OpJoin:           "join",
	OpenParen:        "open parenthesis",
	CloseParen:       "close parenthesis",
	Comma:            "comma",
	Dot:              "dot",
	Colon:            "colon",
	Semicolon:        "semicolon",
	Tilde:            "tilde",
}

// String returns a human-readable name for the kind, as used in error
// messages.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// EndsValue returns true if a token of this kind can be the last token of a
// value expression. The lexer uses this to tell a binary minus from the sign
// of a negative number.
func (k Kind) EndsValue() bool {
	switch k {
	case CloseParen, Identifier, IntLiteral, FloatLiteral, KwTrue, KwFalse, CharsLiteral:
		return true
	}
	return false
}

// keywords maps reserved words to their kinds. It is never modified.
var keywords = map[string]Kind{
	"int":   KwInt,
	"float": KwFloat,
	"bool":  KwBool,
	"chars": KwChars,
	"true":  KwTrue,
	"false": KwFalse,
}

// Lookup returns the keyword kind for word, or Identifier if word is not a
// keyword.
func Lookup(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}
	return Identifier
}

// Token is a single lexical unit. Text is the literal source text, except for
// characters literals, where it excludes the surrounding quotes.
type Token struct {
	Kind Kind
	Text string
	Line int
}

func (t Token) String() string {
	return fmt.Sprintf("%v %q", t.Kind, t.Text)
}
