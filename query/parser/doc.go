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

// Package parser implements a recursive descent parser for the micrordb query
// language. It consumes the tokens produced by package lexer and builds an
// ast.Script.
//
// A program is a sequence of statements, each terminated by ';'. The kind of
// statement is decided by its second token:
//
//	t = a: int, b: chars(10);   create (=)
//	t <- 1, "x" <- 2, "y";      insert (<-)
//	t ~;                        drop (~)
//	t ! ? a == 1;               delete (!)
//	t := b("z") ? a == 2;       update (:=)
//	t -> a, b ? a > 1;          query (anything else)
//
// Scalar expressions, from lowest to highest precedence:
//
//	Or        := And ( '||' And )*
//	And       := Eq ( '&&' Eq )*
//	Eq        := Rel ( ('=='|'!=') Rel )*
//	Rel       := Add ( ('<'|'>'|'<='|'>=') Add )*
//	Add       := Mul ( ('+'|'-') Mul )*
//	Mul       := Primary ( ('*'|'/'|'%') Primary )*
//	Primary   := Identifier | Int | Float | 'true' | 'false' | Chars | '(' Or ')'
//
// Table expressions, from lowest to highest precedence:
//
//	Select    := Project ( '?' Or )*
//	Project   := Union ( '->' Identifier (',' Identifier)* )*
//	Union     := Diff ( '|' Diff )*
//	Diff      := Intersect ( '-' Intersect )*
//	Intersect := Join ( '&' Join )*
//	Join      := TablePrimary ( '^' TablePrimary )*
//	TablePrimary := '(' Project ')' | Identifier
//
// The '-' token means subtraction in scalar expressions and difference in
// table expressions; the active production decides which.
//
// Parsing stops at the first error, which is returned as an
// *UnexpectedTokenError or an *UnexpectedEndError.
package parser
