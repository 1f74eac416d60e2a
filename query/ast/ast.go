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

// Package ast declares the types used to represent parsed micrordb programs.
//
// The set of node types is closed: every node type is declared in this package
// and each interface carries an unexported marker method. A tree is built once
// by the parser and is not modified afterwards. Each node exclusively owns its
// children, so the tree has no shared nodes and no cycles.
package ast

import "fmt"

// Node is implemented by every AST node type.
type Node interface {
	// Accept calls the method of v that matches the concrete node type.
	Accept(v Visitor)
	// String returns source text that parses back to an identical tree.
	String() string
	// Marker method to prevent other types from implementing Node.
	aNode()
}

// Statement is a top-level unit of a Script. Besides the statement types,
// every TableExpr is a Statement: a bare table expression is a query.
type Statement interface {
	Node
	aStatement()
}

// Expr is a scalar expression.
type Expr interface {
	Node
	anExpr()
}

// TableExpr is a relational algebra expression. Its value is a table.
type TableExpr interface {
	Statement
	TableSource
	aTableExpr()
}

// TableSource is what a Create statement defines a table from: either a list
// of typed columns or a table expression.
type TableSource interface {
	Node
	aTableSource()
}

// Script is the root of a parsed program.
type Script struct {
	Statements []Statement
}

// Create defines a table.
//
//	t = a: int, b: chars(10)
//	t = s ? a == 1
type Create struct {
	Table  string
	Source TableSource
}

// Drop removes a table.
//
//	t ~
type Drop struct {
	Table string
}

// Delete removes the rows of a table that match all the filters.
//
//	t ! ? a == 3
type Delete struct {
	Table string
	// Filters has at least one entry.
	Filters []*Filter
}

// Update assigns new values to columns of the rows that match all the filters.
//
//	t := a(a + 1), b("x") ? c > 3
type Update struct {
	Table   string
	Assigns *AssignList
	// Filters has at least one entry.
	Filters []*Filter
}

// Insert adds rows to a table. Each ExpressionList is one row.
//
//	t <- 1, 2 <- 3, 4
type Insert struct {
	Table string
	Rows  []*ExpressionList
}

// NameTypeList is the column definitions of a new table.
type NameTypeList struct {
	Pairs []*NameTypePair
}

// NameTypePair defines a single column.
type NameTypePair struct {
	Name string
	Type ColumnType
	// Width is the integer literal text giving the size of a chars column.
	// It's empty for other column types.
	Width string
}

// ColumnType identifies the type of a table column.
type ColumnType int

// The possible values of ColumnType.
const (
	TypeInt ColumnType = iota + 1
	TypeFloat
	TypeBool
	TypeChars
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeChars:
		return "chars"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Filter is a row condition introduced by '?'.
type Filter struct {
	Cond Expr
}

// AssignList is the column assignments of an Update.
type AssignList struct {
	Assigns []*Assign
}

// Assign sets Column to the value of Value.
type Assign struct {
	Column string
	Value  Expr
}

// ExpressionList is a comma separated list of scalar expressions.
type ExpressionList struct {
	Exprs []Expr
}

// Or is 'LHS || RHS'.
type Or struct {
	LHS Expr
	RHS Expr
}

// And is 'LHS && RHS'.
type And struct {
	LHS Expr
	RHS Expr
}

// Equality compares with '==' or '!='.
type Equality struct {
	LHS Expr
	Op  Operator
	RHS Expr
}

// Relational compares with '<', '<=', '>' or '>='.
type Relational struct {
	LHS Expr
	Op  Operator
	RHS Expr
}

// Additive is '+' or '-'.
type Additive struct {
	LHS Expr
	Op  Operator
	RHS Expr
}

// Multiplicative is '*', '/' or '%'.
type Multiplicative struct {
	LHS Expr
	Op  Operator
	RHS Expr
}

// Operator identifies the operation of a binary scalar expression.
type Operator int

// The possible values of Operator.
const (
	OpEqual Operator = iota + 1
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulus
)

var operatorSymbols = [...]string{
	OpEqual:          "==",
	OpNotEqual:       "!=",
	OpLess:           "<",
	OpLessOrEqual:    "<=",
	OpGreater:        ">",
	OpGreaterOrEqual: ">=",
	OpAdd:            "+",
	OpSubtract:       "-",
	OpMultiply:       "*",
	OpDivide:         "/",
	OpModulus:        "%",
}

// String returns the operator's source symbol.
func (op Operator) String() string {
	if op > 0 && int(op) < len(operatorSymbols) {
		return operatorSymbols[op]
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// Identifier names a column in scalar expressions and a table in table
// expressions.
type Identifier struct {
	Name string
}

// IntLiteral is a 32-bit signed integer constant.
type IntLiteral struct {
	Value int32
}

// FloatLiteral is a floating point constant.
type FloatLiteral struct {
	Value float64
}

// BoolLiteral is 'true' or 'false'.
type BoolLiteral struct {
	Value bool
}

// CharsLiteral is a string constant. Value excludes the quotes.
type CharsLiteral struct {
	Value string
}

// Select keeps the rows of LHS for which Cond holds.
//
//	t ? a > 1
type Select struct {
	LHS  TableExpr
	Cond Expr
}

// Project keeps the given columns of LHS.
//
//	t -> a, b
type Project struct {
	LHS     TableExpr
	Columns *ColumnList
}

// ColumnList is the columns of a Project.
type ColumnList struct {
	Columns []*Identifier
}

// Union is 'LHS | RHS'.
type Union struct {
	LHS TableExpr
	RHS TableExpr
}

// Difference is 'LHS - RHS'.
type Difference struct {
	LHS TableExpr
	RHS TableExpr
}

// Intersect is 'LHS & RHS'.
type Intersect struct {
	LHS TableExpr
	RHS TableExpr
}

// Join is 'LHS ^ RHS'.
type Join struct {
	LHS TableExpr
	RHS TableExpr
}

// Ensures that each of these implements the Node interface.
var _ = []Node{
	new(Script),
	new(Create),
	new(Drop),
	new(Delete),
	new(Update),
	new(Insert),
	new(NameTypeList),
	new(NameTypePair),
	new(Filter),
	new(AssignList),
	new(Assign),
	new(ExpressionList),
	new(Or),
	new(And),
	new(Equality),
	new(Relational),
	new(Additive),
	new(Multiplicative),
	new(Identifier),
	new(IntLiteral),
	new(FloatLiteral),
	new(BoolLiteral),
	new(CharsLiteral),
	new(Select),
	new(Project),
	new(ColumnList),
	new(Union),
	new(Difference),
	new(Intersect),
	new(Join),
}

func (*Script) aNode()         {}
func (*Create) aNode()         {}
func (*Drop) aNode()           {}
func (*Delete) aNode()         {}
func (*Update) aNode()         {}
func (*Insert) aNode()         {}
func (*NameTypeList) aNode()   {}
func (*NameTypePair) aNode()   {}
func (*Filter) aNode()         {}
func (*AssignList) aNode()     {}
func (*Assign) aNode()         {}
func (*ExpressionList) aNode() {}
func (*Or) aNode()             {}
func (*And) aNode()            {}
func (*Equality) aNode()       {}
func (*Relational) aNode()     {}
func (*Additive) aNode()       {}
func (*Multiplicative) aNode() {}
func (*Identifier) aNode()     {}
func (*IntLiteral) aNode()     {}
func (*FloatLiteral) aNode()   {}
func (*BoolLiteral) aNode()    {}
func (*CharsLiteral) aNode()   {}
func (*Select) aNode()         {}
func (*Project) aNode()        {}
func (*ColumnList) aNode()     {}
func (*Union) aNode()          {}
func (*Difference) aNode()     {}
func (*Intersect) aNode()      {}
func (*Join) aNode()           {}

// Ensures that each of these implements the Statement interface.
var _ = []Statement{
	new(Create),
	new(Drop),
	new(Delete),
	new(Update),
	new(Insert),
	new(Identifier),
	new(Select),
	new(Project),
	new(Union),
	new(Difference),
	new(Intersect),
	new(Join),
}

func (*Create) aStatement()     {}
func (*Drop) aStatement()       {}
func (*Delete) aStatement()     {}
func (*Update) aStatement()     {}
func (*Insert) aStatement()     {}
func (*Identifier) aStatement() {}
func (*Select) aStatement()     {}
func (*Project) aStatement()    {}
func (*Union) aStatement()      {}
func (*Difference) aStatement() {}
func (*Intersect) aStatement()  {}
func (*Join) aStatement()       {}

// Ensures that each of these implements the Expr interface.
var _ = []Expr{
	new(Or),
	new(And),
	new(Equality),
	new(Relational),
	new(Additive),
	new(Multiplicative),
	new(Identifier),
	new(IntLiteral),
	new(FloatLiteral),
	new(BoolLiteral),
	new(CharsLiteral),
}

func (*Or) anExpr()             {}
func (*And) anExpr()            {}
func (*Equality) anExpr()       {}
func (*Relational) anExpr()     {}
func (*Additive) anExpr()       {}
func (*Multiplicative) anExpr() {}
func (*Identifier) anExpr()     {}
func (*IntLiteral) anExpr()     {}
func (*FloatLiteral) anExpr()   {}
func (*BoolLiteral) anExpr()    {}
func (*CharsLiteral) anExpr()   {}

// Ensures that each of these implements the TableExpr interface.
var _ = []TableExpr{
	new(Identifier),
	new(Select),
	new(Project),
	new(Union),
	new(Difference),
	new(Intersect),
	new(Join),
}

func (*Identifier) aTableExpr() {}
func (*Select) aTableExpr()     {}
func (*Project) aTableExpr()    {}
func (*Union) aTableExpr()      {}
func (*Difference) aTableExpr() {}
func (*Intersect) aTableExpr()  {}
func (*Join) aTableExpr()       {}

func (*NameTypeList) aTableSource() {}
func (*Identifier) aTableSource()   {}
func (*Select) aTableSource()       {}
func (*Project) aTableSource()      {}
func (*Union) aTableSource()        {}
func (*Difference) aTableSource()   {}
func (*Intersect) aTableSource()    {}
func (*Join) aTableSource()         {}
