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
	"strconv"
	"strings"

	"github.com/ebay/micrordb/query/ast"
	"github.com/ebay/micrordb/query/lexer"
	"github.com/ebay/micrordb/query/token"
)

// MustParse lexes and parses a program and panics if an error occurs. It
// simplifies variable initialization. This is primarily meant for writing
// unit tests.
func MustParse(text string) *ast.Script {
	script, err := ParseText(text)
	if err != nil {
		panic(fmt.Sprintf("unable to parse program: '%s': %v", strings.Replace(text, "\n", "\\n", -1), err))
	}
	return script
}

// ParseText lexes and parses a program. The returned error is either a
// *lexer.Error or one of the errors returned by Parse.
func ParseText(text string) (*ast.Script, error) {
	tokens, err := lexer.Lex(text)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse builds the tree for a program from its tokens. An empty token slice
// yields a Script with no statements.
func Parse(tokens []token.Token) (*ast.Script, error) {
	p := parser{tokens: tokens}
	script := &ast.Script{}
	for p.pos < len(p.tokens) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		script.Statements = append(script.Statements, stmt)
	}
	return script, nil
}

type parser struct {
	tokens []token.Token
	pos    int
}

// peek returns the token at pos+offset, or false if that's past the end.
func (p *parser) peek(offset int) (token.Token, bool) {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[i], true
}

// peekIs returns true if the token at pos+offset exists and has the given
// kind.
func (p *parser) peekIs(offset int, kind token.Kind) bool {
	tok, ok := p.peek(offset)
	return ok && tok.Kind == kind
}

// accept consumes the next token if it has the given kind.
func (p *parser) accept(kind token.Kind) bool {
	if p.peekIs(0, kind) {
		p.pos++
		return true
	}
	return false
}

// acceptOp consumes the next token if it's one of the keys of ops, and
// returns the corresponding operator.
func (p *parser) acceptOp(ops map[token.Kind]ast.Operator) (ast.Operator, bool) {
	tok, ok := p.peek(0)
	if !ok {
		return 0, false
	}
	op, ok := ops[tok.Kind]
	if ok {
		p.pos++
	}
	return op, ok
}

// expect consumes and returns the next token, which must have one of the
// given kinds.
func (p *parser) expect(kinds ...token.Kind) (token.Token, error) {
	tok, ok := p.peek(0)
	if !ok {
		line := 1
		if len(p.tokens) > 0 {
			line = p.tokens[len(p.tokens)-1].Line
		}
		return token.Token{}, &UnexpectedEndError{Expected: kinds, Line: line}
	}
	for _, k := range kinds {
		if tok.Kind == k {
			p.pos++
			return tok, nil
		}
	}
	return token.Token{}, &UnexpectedTokenError{Expected: kinds, Got: tok}
}

// statement dispatches on the second token of the statement.
func (p *parser) statement() (ast.Statement, error) {
	next, ok := p.peek(1)
	if ok {
		switch next.Kind {
		case token.OpAssign:
			return p.create()
		case token.ArrowLeft:
			return p.insert()
		case token.Tilde:
			return p.drop()
		case token.ExclamationPoint:
			return p.delete()
		case token.OpWalrus:
			return p.update()
		}
	}
	return p.selectExpr()
}

// create parses: Identifier '=' (NameTypeList | Select)
func (p *parser) create() (ast.Statement, error) {
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OpAssign); err != nil {
		return nil, err
	}
	var source ast.TableSource
	if p.peekIs(1, token.Colon) {
		list, err := p.nameTypeList()
		if err != nil {
			return nil, err
		}
		source = list
	} else {
		expr, err := p.selectExpr()
		if err != nil {
			return nil, err
		}
		source = expr
	}
	return &ast.Create{Table: name.Text, Source: source}, nil
}

// nameTypeList parses: NameTypePair (',' NameTypePair)*
func (p *parser) nameTypeList() (*ast.NameTypeList, error) {
	list := &ast.NameTypeList{}
	for {
		pair, err := p.nameTypePair()
		if err != nil {
			return nil, err
		}
		list.Pairs = append(list.Pairs, pair)
		if !p.accept(token.Comma) {
			return list, nil
		}
	}
}

var columnTypes = map[token.Kind]ast.ColumnType{
	token.KwInt:   ast.TypeInt,
	token.KwFloat: ast.TypeFloat,
	token.KwBool:  ast.TypeBool,
	token.KwChars: ast.TypeChars,
}

// nameTypePair parses: Identifier ':' ('int' | 'float' | 'bool' | 'chars' Width)
// where Width is a positive integer literal, optionally in parentheses.
func (p *parser) nameTypePair() (*ast.NameTypePair, error) {
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	typ, err := p.expect(token.KwInt, token.KwFloat, token.KwBool, token.KwChars)
	if err != nil {
		return nil, err
	}
	pair := &ast.NameTypePair{Name: name.Text, Type: columnTypes[typ.Kind]}
	if typ.Kind == token.KwChars {
		paren := p.accept(token.OpenParen)
		width, err := p.expect(token.IntLiteral)
		if err != nil {
			return nil, err
		}
		if n, err := strconv.Atoi(width.Text); err != nil || n < 1 {
			return nil, &InvalidLiteralError{Token: width, Reason: "chars width must be at least 1"}
		}
		if paren {
			if _, err := p.expect(token.CloseParen); err != nil {
				return nil, err
			}
		}
		pair.Width = width.Text
	}
	return pair, nil
}

// drop parses: Identifier '~'
func (p *parser) drop() (ast.Statement, error) {
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Tilde); err != nil {
		return nil, err
	}
	return &ast.Drop{Table: name.Text}, nil
}

// delete parses: Identifier '!' Filter+
func (p *parser) delete() (ast.Statement, error) {
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ExclamationPoint); err != nil {
		return nil, err
	}
	filters, err := p.filters()
	if err != nil {
		return nil, err
	}
	return &ast.Delete{Table: name.Text, Filters: filters}, nil
}

// update parses: Identifier ':=' AssignList Filter+
func (p *parser) update() (ast.Statement, error) {
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.OpWalrus); err != nil {
		return nil, err
	}
	assigns, err := p.assignList()
	if err != nil {
		return nil, err
	}
	filters, err := p.filters()
	if err != nil {
		return nil, err
	}
	return &ast.Update{Table: name.Text, Assigns: assigns, Filters: filters}, nil
}

// filters parses one or more: '?' Or
func (p *parser) filters() ([]*ast.Filter, error) {
	var filters []*ast.Filter
	for len(filters) == 0 || p.peekIs(0, token.QuestionMark) {
		if _, err := p.expect(token.QuestionMark); err != nil {
			return nil, err
		}
		cond, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		filters = append(filters, &ast.Filter{Cond: cond})
	}
	return filters, nil
}

// assignList parses: Assign (',' Assign)*
// where Assign is: Identifier '(' Or ')'
func (p *parser) assignList() (*ast.AssignList, error) {
	list := &ast.AssignList{}
	for {
		col, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.OpenParen); err != nil {
			return nil, err
		}
		value, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}
		list.Assigns = append(list.Assigns, &ast.Assign{Column: col.Text, Value: value})
		if !p.accept(token.Comma) {
			return list, nil
		}
	}
}

// insert parses: Identifier ('<-' ExpressionList)+
func (p *parser) insert() (ast.Statement, error) {
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ArrowLeft); err != nil {
		return nil, err
	}
	insert := &ast.Insert{Table: name.Text}
	for {
		row, err := p.expressionList()
		if err != nil {
			return nil, err
		}
		insert.Rows = append(insert.Rows, row)
		if !p.accept(token.ArrowLeft) {
			return insert, nil
		}
	}
}

// expressionList parses: Or (',' Or)*
func (p *parser) expressionList() (*ast.ExpressionList, error) {
	list := &ast.ExpressionList{}
	for {
		expr, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		list.Exprs = append(list.Exprs, expr)
		if !p.accept(token.Comma) {
			return list, nil
		}
	}
}

func (p *parser) orExpr() (ast.Expr, error) {
	lhs, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for p.accept(token.OpLogicalOr) {
		rhs, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Or{LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

func (p *parser) andExpr() (ast.Expr, error) {
	lhs, err := p.eqExpr()
	if err != nil {
		return nil, err
	}
	for p.accept(token.OpLogicalAnd) {
		rhs, err := p.eqExpr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.And{LHS: lhs, RHS: rhs}
	}
	return lhs, nil
}

var (
	equalityOps = map[token.Kind]ast.Operator{
		token.OpEquals:    ast.OpEqual,
		token.OpNotEquals: ast.OpNotEqual,
	}
	relationalOps = map[token.Kind]ast.Operator{
		token.OpLessThan:            ast.OpLess,
		token.OpLessThanOrEquals:    ast.OpLessOrEqual,
		token.OpGreaterThan:         ast.OpGreater,
		token.OpGreaterThanOrEquals: ast.OpGreaterOrEqual,
	}
	additiveOps = map[token.Kind]ast.Operator{
		token.OpPlus:  ast.OpAdd,
		token.OpMinus: ast.OpSubtract,
	}
	multiplicativeOps = map[token.Kind]ast.Operator{
		token.OpMultiply: ast.OpMultiply,
		token.OpDivide:   ast.OpDivide,
		token.OpModulus:  ast.OpModulus,
	}
)

func (p *parser) eqExpr() (ast.Expr, error) {
	lhs, err := p.relExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(equalityOps)
		if !ok {
			return lhs, nil
		}
		rhs, err := p.relExpr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Equality{LHS: lhs, Op: op, RHS: rhs}
	}
}

func (p *parser) relExpr() (ast.Expr, error) {
	lhs, err := p.addExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(relationalOps)
		if !ok {
			return lhs, nil
		}
		rhs, err := p.addExpr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Relational{LHS: lhs, Op: op, RHS: rhs}
	}
}

func (p *parser) addExpr() (ast.Expr, error) {
	lhs, err := p.mulExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(additiveOps)
		if !ok {
			return lhs, nil
		}
		rhs, err := p.mulExpr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Additive{LHS: lhs, Op: op, RHS: rhs}
	}
}

func (p *parser) mulExpr() (ast.Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp(multiplicativeOps)
		if !ok {
			return lhs, nil
		}
		rhs, err := p.primary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Multiplicative{LHS: lhs, Op: op, RHS: rhs}
	}
}

var primaryKinds = []token.Kind{
	token.Identifier,
	token.IntLiteral,
	token.FloatLiteral,
	token.KwTrue,
	token.KwFalse,
	token.CharsLiteral,
	token.OpenParen,
}

func (p *parser) primary() (ast.Expr, error) {
	tok, err := p.expect(primaryKinds...)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.Identifier:
		return &ast.Identifier{Name: tok.Text}, nil
	case token.IntLiteral:
		v, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			return nil, &InvalidLiteralError{Token: tok, Reason: "out of 32 bit int range"}
		}
		return &ast.IntLiteral{Value: int32(v)}, nil
	case token.FloatLiteral:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &InvalidLiteralError{Token: tok, Reason: "out of 64 bit float range"}
		}
		return &ast.FloatLiteral{Value: v}, nil
	case token.KwTrue:
		return &ast.BoolLiteral{Value: true}, nil
	case token.KwFalse:
		return &ast.BoolLiteral{Value: false}, nil
	case token.CharsLiteral:
		return &ast.CharsLiteral{Value: tok.Text}, nil
	}
	expr, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// selectExpr parses: Project ('?' Or)*
func (p *parser) selectExpr() (ast.TableExpr, error) {
	lhs, err := p.projectExpr()
	if err != nil {
		return nil, err
	}
	for p.accept(token.QuestionMark) {
		cond, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Select{LHS: lhs, Cond: cond}
	}
	return lhs, nil
}

// projectExpr parses: Union ('->' ColumnList)*
func (p *parser) projectExpr() (ast.TableExpr, error) {
	lhs, err := p.unionExpr()
	if err != nil {
		return nil, err
	}
	for p.accept(token.ArrowRight) {
		cols, err := p.columnList()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Project{LHS: lhs, Columns: cols}
	}
	return lhs, nil
}

// columnList parses: Identifier (',' Identifier)*
func (p *parser) columnList() (*ast.ColumnList, error) {
	list := &ast.ColumnList{}
	for {
		col, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		list.Columns = append(list.Columns, &ast.Identifier{Name: col.Text})
		if !p.accept(token.Comma) {
			return list, nil
		}
	}
}

// tableBinary parses a left-associative chain of operands joined by op.
func (p *parser) tableBinary(op token.Kind,
	operand func() (ast.TableExpr, error),
	build func(lhs, rhs ast.TableExpr) ast.TableExpr,
) (ast.TableExpr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}
	for p.accept(op) {
		rhs, err := operand()
		if err != nil {
			return nil, err
		}
		lhs = build(lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) unionExpr() (ast.TableExpr, error) {
	return p.tableBinary(token.OpUnion, p.diffExpr, func(lhs, rhs ast.TableExpr) ast.TableExpr {
		return &ast.Union{LHS: lhs, RHS: rhs}
	})
}

func (p *parser) diffExpr() (ast.TableExpr, error) {
	return p.tableBinary(token.OpMinus, p.intersectExpr, func(lhs, rhs ast.TableExpr) ast.TableExpr {
		return &ast.Difference{LHS: lhs, RHS: rhs}
	})
}

func (p *parser) intersectExpr() (ast.TableExpr, error) {
	return p.tableBinary(token.OpIntersect, p.joinExpr, func(lhs, rhs ast.TableExpr) ast.TableExpr {
		return &ast.Intersect{LHS: lhs, RHS: rhs}
	})
}

func (p *parser) joinExpr() (ast.TableExpr, error) {
	return p.tableBinary(token.OpJoin, p.tablePrimary, func(lhs, rhs ast.TableExpr) ast.TableExpr {
		return &ast.Join{LHS: lhs, RHS: rhs}
	})
}

// tablePrimary parses: '(' Project ')' | Identifier
func (p *parser) tablePrimary() (ast.TableExpr, error) {
	tok, err := p.expect(token.Identifier, token.OpenParen)
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Identifier {
		return &ast.Identifier{Name: tok.Text}, nil
	}
	expr, err := p.projectExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.CloseParen); err != nil {
		return nil, err
	}
	return expr, nil
}
