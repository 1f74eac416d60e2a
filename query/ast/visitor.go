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

package ast

import "fmt"

// Visitor has one method per node type. A node's Accept method calls the
// matching Visitor method; the visitor decides whether and in which order to
// descend into the node's children. Children gives the canonical order.
//
// Visitors must not modify the tree.
type Visitor interface {
	VisitScript(*Script)
	VisitCreate(*Create)
	VisitDrop(*Drop)
	VisitDelete(*Delete)
	VisitUpdate(*Update)
	VisitInsert(*Insert)
	VisitNameTypeList(*NameTypeList)
	VisitNameTypePair(*NameTypePair)
	VisitFilter(*Filter)
	VisitAssignList(*AssignList)
	VisitAssign(*Assign)
	VisitExpressionList(*ExpressionList)
	VisitOr(*Or)
	VisitAnd(*And)
	VisitEquality(*Equality)
	VisitRelational(*Relational)
	VisitAdditive(*Additive)
	VisitMultiplicative(*Multiplicative)
	VisitIdentifier(*Identifier)
	VisitIntLiteral(*IntLiteral)
	VisitFloatLiteral(*FloatLiteral)
	VisitBoolLiteral(*BoolLiteral)
	VisitCharsLiteral(*CharsLiteral)
	VisitSelect(*Select)
	VisitProject(*Project)
	VisitColumnList(*ColumnList)
	VisitUnion(*Union)
	VisitDifference(*Difference)
	VisitIntersect(*Intersect)
	VisitJoin(*Join)
}

// Accept implements Node.Accept.
func (n *Script) Accept(v Visitor) { v.VisitScript(n) }

// Accept implements Node.Accept.
func (n *Create) Accept(v Visitor) { v.VisitCreate(n) }

// Accept implements Node.Accept.
func (n *Drop) Accept(v Visitor) { v.VisitDrop(n) }

// Accept implements Node.Accept.
func (n *Delete) Accept(v Visitor) { v.VisitDelete(n) }

// Accept implements Node.Accept.
func (n *Update) Accept(v Visitor) { v.VisitUpdate(n) }

// Accept implements Node.Accept.
func (n *Insert) Accept(v Visitor) { v.VisitInsert(n) }

// Accept implements Node.Accept.
func (n *NameTypeList) Accept(v Visitor) { v.VisitNameTypeList(n) }

// Accept implements Node.Accept.
func (n *NameTypePair) Accept(v Visitor) { v.VisitNameTypePair(n) }

// Accept implements Node.Accept.
func (n *Filter) Accept(v Visitor) { v.VisitFilter(n) }

// Accept implements Node.Accept.
func (n *AssignList) Accept(v Visitor) { v.VisitAssignList(n) }

// Accept implements Node.Accept.
func (n *Assign) Accept(v Visitor) { v.VisitAssign(n) }

// Accept implements Node.Accept.
func (n *ExpressionList) Accept(v Visitor) { v.VisitExpressionList(n) }

// Accept implements Node.Accept.
func (n *Or) Accept(v Visitor) { v.VisitOr(n) }

// Accept implements Node.Accept.
func (n *And) Accept(v Visitor) { v.VisitAnd(n) }

// Accept implements Node.Accept.
func (n *Equality) Accept(v Visitor) { v.VisitEquality(n) }

// Accept implements Node.Accept.
func (n *Relational) Accept(v Visitor) { v.VisitRelational(n) }

// Accept implements Node.Accept.
func (n *Additive) Accept(v Visitor) { v.VisitAdditive(n) }

// Accept implements Node.Accept.
func (n *Multiplicative) Accept(v Visitor) { v.VisitMultiplicative(n) }

// Accept implements Node.Accept.
func (n *Identifier) Accept(v Visitor) { v.VisitIdentifier(n) }

// Accept implements Node.Accept.
func (n *IntLiteral) Accept(v Visitor) { v.VisitIntLiteral(n) }

// Accept implements Node.Accept.
func (n *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(n) }

// Accept implements Node.Accept.
func (n *BoolLiteral) Accept(v Visitor) { v.VisitBoolLiteral(n) }

// Accept implements Node.Accept.
func (n *CharsLiteral) Accept(v Visitor) { v.VisitCharsLiteral(n) }

// Accept implements Node.Accept.
func (n *Select) Accept(v Visitor) { v.VisitSelect(n) }

// Accept implements Node.Accept.
func (n *Project) Accept(v Visitor) { v.VisitProject(n) }

// Accept implements Node.Accept.
func (n *ColumnList) Accept(v Visitor) { v.VisitColumnList(n) }

// Accept implements Node.Accept.
func (n *Union) Accept(v Visitor) { v.VisitUnion(n) }

// Accept implements Node.Accept.
func (n *Difference) Accept(v Visitor) { v.VisitDifference(n) }

// Accept implements Node.Accept.
func (n *Intersect) Accept(v Visitor) { v.VisitIntersect(n) }

// Accept implements Node.Accept.
func (n *Join) Accept(v Visitor) { v.VisitJoin(n) }

// Children returns the direct children of n in their fixed visiting order:
// list elements in declared order, LHS before RHS, a Create's source, an
// Update's assignments before its filters, and a Project's input before its
// columns. Leaf nodes have no children.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Script:
		children := make([]Node, len(n.Statements))
		for i, s := range n.Statements {
			children[i] = s
		}
		return children
	case *Create:
		return []Node{n.Source}
	case *Drop:
		return nil
	case *Delete:
		return filterNodes(nil, n.Filters)
	case *Update:
		return filterNodes([]Node{n.Assigns}, n.Filters)
	case *Insert:
		children := make([]Node, len(n.Rows))
		for i, row := range n.Rows {
			children[i] = row
		}
		return children
	case *NameTypeList:
		children := make([]Node, len(n.Pairs))
		for i, pair := range n.Pairs {
			children[i] = pair
		}
		return children
	case *NameTypePair:
		return nil
	case *Filter:
		return []Node{n.Cond}
	case *AssignList:
		children := make([]Node, len(n.Assigns))
		for i, assign := range n.Assigns {
			children[i] = assign
		}
		return children
	case *Assign:
		return []Node{n.Value}
	case *ExpressionList:
		children := make([]Node, len(n.Exprs))
		for i, expr := range n.Exprs {
			children[i] = expr
		}
		return children
	case *Or:
		return []Node{n.LHS, n.RHS}
	case *And:
		return []Node{n.LHS, n.RHS}
	case *Equality:
		return []Node{n.LHS, n.RHS}
	case *Relational:
		return []Node{n.LHS, n.RHS}
	case *Additive:
		return []Node{n.LHS, n.RHS}
	case *Multiplicative:
		return []Node{n.LHS, n.RHS}
	case *Identifier, *IntLiteral, *FloatLiteral, *BoolLiteral, *CharsLiteral:
		return nil
	case *Select:
		return []Node{n.LHS, n.Cond}
	case *Project:
		return []Node{n.LHS, n.Columns}
	case *ColumnList:
		children := make([]Node, len(n.Columns))
		for i, col := range n.Columns {
			children[i] = col
		}
		return children
	case *Union:
		return []Node{n.LHS, n.RHS}
	case *Difference:
		return []Node{n.LHS, n.RHS}
	case *Intersect:
		return []Node{n.LHS, n.RHS}
	case *Join:
		return []Node{n.LHS, n.RHS}
	}
	panic(fmt.Sprintf("ast.Children: unexpected node type %T", n))
}

func filterNodes(dest []Node, filters []*Filter) []Node {
	for _, f := range filters {
		dest = append(dest, f)
	}
	return dest
}

// Inspect traverses the tree rooted at n in pre-order, following the order
// of Children. It calls f for each node; if f returns false, Inspect skips
// that node's children.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, f)
	}
}
