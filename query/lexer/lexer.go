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

// Package lexer converts micrordb program text into tokens.
//
// Lexing is eager: Lex consumes the entire input before returning, and it
// stops at the first error. Whitespace and '#' comments are discarded, so the
// original text can't be reconstructed from the tokens.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ebay/micrordb/query/token"
)

// twoCharOps take priority over a one character prefix.
var twoCharOps = map[string]token.Kind{
	"->": token.ArrowRight,
	"<-": token.ArrowLeft,
	"<=": token.OpLessThanOrEquals,
	">=": token.OpGreaterThanOrEquals,
	"==": token.OpEquals,
	"!=": token.OpNotEquals,
	"&&": token.OpLogicalAnd,
	"||": token.OpLogicalOr,
	":=": token.OpWalrus,
}

// oneCharOps excludes '-', whose meaning depends on the previous token.
var oneCharOps = map[byte]token.Kind{
	'+': token.OpPlus,
	'*': token.OpMultiply,
	'/': token.OpDivide,
	'%': token.OpModulus,
	'&': token.OpIntersect,
	'|': token.OpUnion,
	'^': token.OpJoin,
	'<': token.OpLessThan,
	'>': token.OpGreaterThan,
	'!': token.ExclamationPoint,
	':': token.Colon,
	';': token.Semicolon,
	',': token.Comma,
	'.': token.Dot,
	'(': token.OpenParen,
	')': token.CloseParen,
	'@': token.At,
	'~': token.Tilde,
	'?': token.QuestionMark,
	'=': token.OpAssign,
}

// Lex returns the tokens of text in source order. If the text isn't
// lexically valid, it returns a *Error describing the first problem found and
// no tokens.
func Lex(text string) ([]token.Token, error) {
	l := lexer{in: text, line: 1}
	for l.pos < len(l.in) {
		if err := l.next(); err != nil {
			return nil, err
		}
	}
	return l.tokens, nil
}

type lexer struct {
	in   string
	pos  int
	line int
	// lineStart is the offset of the first byte of the current line.
	lineStart int
	tokens    []token.Token
}

// peek returns the byte at pos+offset. It returns false at or past the end of
// the input.
func (l *lexer) peek(offset int) (byte, bool) {
	i := l.pos + offset
	if i < 0 || i >= len(l.in) {
		return 0, false
	}
	return l.in[i], true
}

func (l *lexer) peekIs(offset int, c byte) bool {
	b, ok := l.peek(offset)
	return ok && b == c
}

func (l *lexer) peekDigit(offset int) bool {
	b, ok := l.peek(offset)
	return ok && isDigit(b)
}

// next consumes the token, whitespace run, or comment starting at pos.
func (l *lexer) next() error {
	c := l.in[l.pos]
	switch {
	case isSpace(c):
		l.skipSpace()
		return nil
	case c == '#':
		l.skipComment()
		return nil
	case isLetter(c) || c == '_':
		l.word()
		return nil
	case c == '-' && l.peekIs(1, '>'):
		l.emit(token.ArrowRight, 2)
		return nil
	case c == '-' && l.previousEndsValue():
		l.emit(token.OpMinus, 1)
		return nil
	case isDigit(c) || c == '-':
		return l.number()
	case c == '"':
		return l.chars()
	}
	if l.pos+1 < len(l.in) {
		if kind, ok := twoCharOps[l.in[l.pos:l.pos+2]]; ok {
			l.emit(kind, 2)
			return nil
		}
	}
	if kind, ok := oneCharOps[c]; ok {
		l.emit(kind, 1)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(l.in[l.pos:])
	return l.errorAt(l.pos, UnknownCharacter, string(r))
}

// previousEndsValue returns true if the most recent token can end a value
// expression, in which case a '-' is the minus operator rather than a sign.
//
// This only looks at one token. It is the rule the language has always had,
// but it isn't known to be complete: a '-' after a keyword like 'int' is
// lexed as a sign, for example.
func (l *lexer) previousEndsValue() bool {
	if len(l.tokens) == 0 {
		return false
	}
	return l.tokens[len(l.tokens)-1].Kind.EndsValue()
}

func (l *lexer) emit(kind token.Kind, width int) {
	l.emitText(kind, l.in[l.pos:l.pos+width], l.pos+width)
}

// emitText appends a token and moves pos to end.
func (l *lexer) emitText(kind token.Kind, text string, end int) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Text: text, Line: l.line})
	l.pos = end
}

func (l *lexer) newline(width int) {
	l.pos += width
	l.line++
	l.lineStart = l.pos
}

// skipSpace consumes a run of whitespace. "\r\n" and "\n" each end one line.
func (l *lexer) skipSpace() {
	for l.pos < len(l.in) && isSpace(l.in[l.pos]) {
		switch {
		case l.in[l.pos] == '\r' && l.peekIs(1, '\n'):
			l.newline(2)
		case l.in[l.pos] == '\n':
			l.newline(1)
		default:
			l.pos++
		}
	}
}

// skipComment consumes up to, but not including, the end of the line.
func (l *lexer) skipComment() {
	for l.pos < len(l.in) && l.in[l.pos] != '\n' && l.in[l.pos] != '\r' {
		l.pos++
	}
}

func (l *lexer) word() {
	end := l.pos + 1
	for end < len(l.in) && (isLetter(l.in[end]) || isDigit(l.in[end]) || l.in[end] == '_') {
		end++
	}
	text := l.in[l.pos:end]
	l.emitText(token.Lookup(text), text, end)
}

// number consumes an integer or float literal, with an optional leading '-'.
// A '.' is only part of the literal if a digit follows it; otherwise it's
// left for the next token.
func (l *lexer) number() error {
	width := 1
	if l.in[l.pos] == '-' && !l.peekDigit(1) {
		text := "-"
		if l.pos+1 < len(l.in) {
			r, _ := utf8.DecodeRuneInString(l.in[l.pos+1:])
			text += string(r)
		}
		return l.errorAt(l.pos, DanglingMinus, text)
	}
	for l.peekDigit(width) {
		width++
	}
	if l.peekIs(width, '.') && l.peekDigit(width+1) {
		width++
		for l.peekDigit(width) {
			width++
		}
		text := l.in[l.pos : l.pos+width]
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return l.errorAt(l.pos, FloatOutOfRange, text)
		}
		l.emit(token.FloatLiteral, width)
		return nil
	}
	text := l.in[l.pos : l.pos+width]
	if _, err := strconv.ParseInt(text, 10, 32); err != nil {
		return l.errorAt(l.pos, IntegerOutOfRange, text)
	}
	l.emit(token.IntLiteral, width)
	return nil
}

// chars consumes a characters literal. The token's text excludes the quotes
// and escape sequences are left as written. The token carries the line of the
// opening quote; newlines inside the literal still count towards later lines.
func (l *lexer) chars() error {
	closing := strings.IndexByte(l.in[l.pos+1:], '"')
	if closing < 0 {
		text := l.in[l.pos:]
		if nl := strings.IndexAny(text, "\r\n"); nl >= 0 {
			text = text[:nl]
		}
		return l.errorAt(l.pos, UnterminatedString, text)
	}
	start := l.pos
	end := start + 1 + closing + 1
	l.emitText(token.CharsLiteral, l.in[start+1:end-1], end)
	for i := start + 1; i < end-1; i++ {
		if l.in[i] == '\n' {
			l.line++
			l.lineStart = i + 1
		}
	}
	return nil
}

func (l *lexer) errorAt(offset int, kind ErrorKind, text string) *Error {
	return &Error{
		Kind:   kind,
		Line:   l.line,
		Column: utf8.RuneCountInString(l.in[l.lineStart:offset]) + 1,
		Text:   text,
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
