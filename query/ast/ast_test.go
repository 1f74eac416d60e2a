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

package ast_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ebay/micrordb/query/ast"
	"github.com/ebay/micrordb/query/parser"
	"github.com/stretchr/testify/assert"
)

func Test_OperatorString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("==", ast.OpEqual.String())
	assert.Equal(">=", ast.OpGreaterOrEqual.String())
	assert.Equal("-", ast.OpSubtract.String())
	assert.Equal("%", ast.OpModulus.String())
	assert.Equal("Operator(0)", ast.Operator(0).String())
	assert.Equal("Operator(99)", ast.Operator(99).String())
}

func Test_ColumnTypeString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("int", ast.TypeInt.String())
	assert.Equal("float", ast.TypeFloat.String())
	assert.Equal("bool", ast.TypeBool.String())
	assert.Equal("chars", ast.TypeChars.String())
	assert.Equal("ColumnType(0)", ast.ColumnType(0).String())
}

func Test_Children(t *testing.T) {
	assert := assert.New(t)
	a := &ast.Identifier{Name: "a"}
	one := &ast.IntLiteral{Value: 1}
	f1 := &ast.Filter{Cond: a}
	f2 := &ast.Filter{Cond: one}
	assigns := &ast.AssignList{Assigns: []*ast.Assign{{Column: "a", Value: one}}}
	update := &ast.Update{Table: "t", Assigns: assigns, Filters: []*ast.Filter{f1, f2}}
	assert.Equal([]ast.Node{assigns, f1, f2}, ast.Children(update))

	cols := &ast.ColumnList{Columns: []*ast.Identifier{a}}
	project := &ast.Project{LHS: &ast.Identifier{Name: "t"}, Columns: cols}
	assert.Equal([]ast.Node{project.LHS, cols}, ast.Children(project))
	assert.Equal([]ast.Node{a}, ast.Children(cols))

	sub := &ast.Additive{LHS: one, Op: ast.OpSubtract, RHS: a}
	assert.Equal([]ast.Node{one, a}, ast.Children(sub))
	assert.Empty(ast.Children(a))
	assert.Empty(ast.Children(&ast.Drop{Table: "t"}))
	assert.Empty(ast.Children(&ast.NameTypePair{Name: "a", Type: ast.TypeInt}))
	assert.Empty(ast.Children(&ast.Delete{Table: "t"}))
}

// kindName returns the node's type name without the package.
func kindName(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

func Test_InspectIsPreOrder(t *testing.T) {
	script := parser.MustParse(`t := a(1 + b) ? c; u <- "x"; (v -> d) ? d;`)
	var kinds []string
	ast.Inspect(script, func(n ast.Node) bool {
		kinds = append(kinds, kindName(n))
		return true
	})
	assert.Equal(t, []string{
		"Script",
		"Update", "AssignList", "Assign", "Additive", "IntLiteral", "Identifier",
		"Filter", "Identifier",
		"Insert", "ExpressionList", "CharsLiteral",
		"Select", "Project", "Identifier", "ColumnList", "Identifier", "Identifier",
	}, kinds)
}

func Test_InspectSkipsChildren(t *testing.T) {
	script := parser.MustParse(`t <- 1 + 2, 3; u ~;`)
	var kinds []string
	ast.Inspect(script, func(n ast.Node) bool {
		kinds = append(kinds, kindName(n))
		_, isList := n.(*ast.ExpressionList)
		return !isList
	})
	assert.Equal(t, []string{"Script", "Insert", "ExpressionList", "Drop"}, kinds)
}

// recorder is a Visitor that records which method was called and descends
// into children using ast.Children.
type recorder struct {
	calls []string
}

func (r *recorder) visit(name string, n ast.Node) {
	r.calls = append(r.calls, name)
	for _, child := range ast.Children(n) {
		child.Accept(r)
	}
}

func (r *recorder) VisitScript(n *ast.Script)                 { r.visit("Script", n) }
func (r *recorder) VisitCreate(n *ast.Create)                 { r.visit("Create", n) }
func (r *recorder) VisitDrop(n *ast.Drop)                     { r.visit("Drop", n) }
func (r *recorder) VisitDelete(n *ast.Delete)                 { r.visit("Delete", n) }
func (r *recorder) VisitUpdate(n *ast.Update)                 { r.visit("Update", n) }
func (r *recorder) VisitInsert(n *ast.Insert)                 { r.visit("Insert", n) }
func (r *recorder) VisitNameTypeList(n *ast.NameTypeList)     { r.visit("NameTypeList", n) }
func (r *recorder) VisitNameTypePair(n *ast.NameTypePair)     { r.visit("NameTypePair", n) }
func (r *recorder) VisitFilter(n *ast.Filter)                 { r.visit("Filter", n) }
func (r *recorder) VisitAssignList(n *ast.AssignList)         { r.visit("AssignList", n) }
func (r *recorder) VisitAssign(n *ast.Assign)                 { r.visit("Assign", n) }
func (r *recorder) VisitExpressionList(n *ast.ExpressionList) { r.visit("ExpressionList", n) }
func (r *recorder) VisitOr(n *ast.Or)                         { r.visit("Or", n) }
func (r *recorder) VisitAnd(n *ast.And)                       { r.visit("And", n) }
func (r *recorder) VisitEquality(n *ast.Equality)             { r.visit("Equality", n) }
func (r *recorder) VisitRelational(n *ast.Relational)         { r.visit("Relational", n) }
func (r *recorder) VisitAdditive(n *ast.Additive)             { r.visit("Additive", n) }
func (r *recorder) VisitMultiplicative(n *ast.Multiplicative) { r.visit("Multiplicative", n) }
func (r *recorder) VisitIdentifier(n *ast.Identifier)         { r.visit("Identifier", n) }
func (r *recorder) VisitIntLiteral(n *ast.IntLiteral)         { r.visit("IntLiteral", n) }
func (r *recorder) VisitFloatLiteral(n *ast.FloatLiteral)     { r.visit("FloatLiteral", n) }
func (r *recorder) VisitBoolLiteral(n *ast.BoolLiteral)       { r.visit("BoolLiteral", n) }
func (r *recorder) VisitCharsLiteral(n *ast.CharsLiteral)     { r.visit("CharsLiteral", n) }
func (r *recorder) VisitSelect(n *ast.Select)                 { r.visit("Select", n) }
func (r *recorder) VisitProject(n *ast.Project)               { r.visit("Project", n) }
func (r *recorder) VisitColumnList(n *ast.ColumnList)         { r.visit("ColumnList", n) }
func (r *recorder) VisitUnion(n *ast.Union)                   { r.visit("Union", n) }
func (r *recorder) VisitDifference(n *ast.Difference)         { r.visit("Difference", n) }
func (r *recorder) VisitIntersect(n *ast.Intersect)           { r.visit("Intersect", n) }
func (r *recorder) VisitJoin(n *ast.Join)                     { r.visit("Join", n) }

// Every node type must dispatch to its own Visitor method, and visiting must
// agree with Inspect.
func Test_AcceptDispatch(t *testing.T) {
	script := parser.MustParse(`
		t = a:int, b:chars(4);
		u = t ? a > 1;
		t <- 1, 2.5 <- true, "x";
		t ! ? a == 1 || b != 2 && c < 3;
		t := a(a * 2 - 1) ? false;
		a | b - c & d ^ e -> x;
		t ~;`)
	r := new(recorder)
	script.Accept(r)

	var inspected []string
	ast.Inspect(script, func(n ast.Node) bool {
		inspected = append(inspected, kindName(n))
		return true
	})
	assert.Equal(t, inspected, r.calls)

	seen := make(map[string]bool)
	for _, c := range r.calls {
		seen[c] = true
	}
	assert.Len(t, seen, 30, "calls: %v", r.calls)
}

func Test_String(t *testing.T) {
	tests := []struct {
		node ast.Node
		exp  string
	}{
		{&ast.FloatLiteral{Value: 3}, "3.0"},
		{&ast.FloatLiteral{Value: 0.125}, "0.125"},
		{&ast.FloatLiteral{Value: -2}, "-2.0"},
		{&ast.IntLiteral{Value: -7}, "-7"},
		{&ast.BoolLiteral{Value: false}, "false"},
		{&ast.CharsLiteral{Value: "a b"}, `"a b"`},
		{&ast.NameTypePair{Name: "c", Type: ast.TypeChars, Width: "8"}, "c: chars(8)"},
		{&ast.Drop{Table: "t"}, "t ~"},
		{&ast.Script{}, ""},
		{&ast.Script{Statements: []ast.Statement{
			&ast.Drop{Table: "t"},
			&ast.Identifier{Name: "u"},
		}}, "t ~;\nu;"},
	}
	for _, test := range tests {
		t.Run(test.exp, func(t *testing.T) {
			assert.Equal(t, test.exp, test.node.String())
		})
	}
}
