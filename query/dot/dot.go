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


// Package dot writes syntax trees in the Graphviz DOT language.
//
// Nodes are numbered node0, node1, ... in pre-order, and each node's line is
// written before those of its children. The edges from a node to its children
// follow the children's lines, in child order. An Update is the one exception:
// the edge to its assign list is written before its filters are visited.
package dot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ebay/micrordb/query/ast"
	"github.com/ebay/micrordb/util/graphviz"
)

// Write writes the tree rooted at 'root' as an undirected graph named G. It
// returns the first error from writing to w.
func Write(w io.Writer, root ast.Node) error {
	p := printer{w: bufio.NewWriter(w)}
	p.w.WriteString("graph G {\n")
	root.Accept(&p)
	p.w.WriteString("}\n")
	return p.w.Flush()
}

// Generate returns the DOT text for the tree rooted at 'root'. Before returning
// it, Generate reads the text back and checks that it describes exactly one
// graph node per tree node, joined by one edge per parent-child pair.
func Generate(root ast.Node) (string, error) {
	var b strings.Builder
	if err := Write(&b, root); err != nil {
		return "", err
	}
	text := b.String()
	g, err := graphviz.Parse(text)
	if err != nil {
		return "", fmt.Errorf("dot: generated invalid graph: %v", err)
	}
	nodes := 0
	ast.Inspect(root, func(ast.Node) bool {
		nodes++
		return true
	})
	if len(g.Nodes) != nodes || len(g.Edges) != nodes-1 {
		return "", fmt.Errorf("dot: generated %d nodes and %d edges for a tree of %d nodes",
			len(g.Nodes), len(g.Edges), nodes)
	}
	return text, nil
}

// escape protects user text inside a quoted label. The label separators
// written by the printer itself are not escaped.
var escape = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace

// printer implements ast.Visitor. Errors from the bufio.Writer are sticky and
// surface from Flush.
type printer struct {
	w *bufio.Writer
	// The number to give the next node.
	next int
	// The number given to the node most recently visited.
	last int
}

// open writes the line for a new node and returns its number.
func (p *printer) open(label string) int {
	id := p.next
	p.next++
	fmt.Fprintf(p.w, "node%d [label=\"%s\"];\n", id, label)
	return id
}

func (p *printer) edge(from, to int) {
	fmt.Fprintf(p.w, "node%d -- node%d;\n", from, to)
}

// visit numbers the given children in order, then links them to 'parent'.
func (p *printer) visit(parent int, children []ast.Node) {
	ids := make([]int, len(children))
	for i, c := range children {
		c.Accept(p)
		ids[i] = p.last
	}
	for _, id := range ids {
		p.edge(parent, id)
	}
	p.last = parent
}

// tree writes 'n' with the given label followed by its whole subtree.
func (p *printer) tree(label string, n ast.Node) {
	p.visit(p.open(label), ast.Children(n))
}

func (p *printer) VisitScript(n *ast.Script) { p.tree("program", n) }
func (p *printer) VisitCreate(n *ast.Create) { p.tree(`create\n`+escape(n.Table), n) }
func (p *printer) VisitDrop(n *ast.Drop)     { p.tree(`drop\n`+escape(n.Table), n) }
func (p *printer) VisitDelete(n *ast.Delete) { p.tree(`delete\n`+escape(n.Table), n) }
func (p *printer) VisitInsert(n *ast.Insert) { p.tree(`insert\n`+escape(n.Table), n) }

func (p *printer) VisitUpdate(n *ast.Update) {
	id := p.open(`update\n` + escape(n.Table))
	n.Assigns.Accept(p)
	p.edge(id, p.last)
	filters := make([]ast.Node, len(n.Filters))
	for i, f := range n.Filters {
		filters[i] = f
	}
	p.visit(id, filters)
}

func (p *printer) VisitNameTypeList(n *ast.NameTypeList) { p.tree("name-type list", n) }

func (p *printer) VisitNameTypePair(n *ast.NameTypePair) {
	label := `name-type pair\n` + escape(n.Name) + ":" + n.Type.String()
	if n.Width != "" {
		label += "(" + escape(n.Width) + ")"
	}
	p.tree(label, n)
}

func (p *printer) VisitFilter(n *ast.Filter)                 { p.tree("filter", n) }
func (p *printer) VisitAssignList(n *ast.AssignList)         { p.tree("assign list", n) }
func (p *printer) VisitAssign(n *ast.Assign)                 { p.tree(`assign\n`+escape(n.Column), n) }
func (p *printer) VisitExpressionList(n *ast.ExpressionList) { p.tree("expression list", n) }
func (p *printer) VisitOr(n *ast.Or)                         { p.tree("||", n) }
func (p *printer) VisitAnd(n *ast.And)                       { p.tree("&&", n) }
func (p *printer) VisitEquality(n *ast.Equality)             { p.tree(n.Op.String(), n) }
func (p *printer) VisitRelational(n *ast.Relational)         { p.tree(n.Op.String(), n) }
func (p *printer) VisitAdditive(n *ast.Additive)             { p.tree(n.Op.String(), n) }
func (p *printer) VisitMultiplicative(n *ast.Multiplicative) { p.tree(n.Op.String(), n) }
func (p *printer) VisitIdentifier(n *ast.Identifier)         { p.tree(`identifier\n`+escape(n.Name), n) }

func (p *printer) VisitIntLiteral(n *ast.IntLiteral) {
	p.tree(`int literal\n`+strconv.FormatInt(int64(n.Value), 10), n)
}

// Floats use six decimal places.
func (p *printer) VisitFloatLiteral(n *ast.FloatLiteral) {
	p.tree(fmt.Sprintf(`float literal\n%f`, n.Value), n)
}

func (p *printer) VisitBoolLiteral(n *ast.BoolLiteral) {
	p.tree(`bool literal\n`+strconv.FormatBool(n.Value), n)
}

func (p *printer) VisitCharsLiteral(n *ast.CharsLiteral) { p.tree(`chars literal\n`+escape(n.Value), n) }
func (p *printer) VisitSelect(n *ast.Select)             { p.tree("select expression", n) }
func (p *printer) VisitProject(n *ast.Project)           { p.tree("project expression", n) }
func (p *printer) VisitColumnList(n *ast.ColumnList)     { p.tree("column list", n) }
func (p *printer) VisitUnion(n *ast.Union)               { p.tree("union expression", n) }
func (p *printer) VisitDifference(n *ast.Difference)     { p.tree("difference expression", n) }
func (p *printer) VisitIntersect(n *ast.Intersect)       { p.tree("intersect expression", n) }
func (p *printer) VisitJoin(n *ast.Join)                 { p.tree("join expression", n) }

var _ ast.Visitor = (*printer)(nil)
