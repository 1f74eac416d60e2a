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

import (
	"fmt"
	"strconv"
	"strings"
)

// The String methods produce source text for trees the parser can build.
// Binary expressions are always parenthesized so that the text doesn't depend
// on precedence. Select chains are not parenthesized, as a parenthesized table
// expression can't contain a select.

func (n *Script) String() string {
	var b strings.Builder
	for i, s := range n.Statements {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.String())
		b.WriteByte(';')
	}
	return b.String()
}

func (n *Create) String() string {
	return fmt.Sprintf("%s = %v", n.Table, n.Source)
}

func (n *Drop) String() string {
	return n.Table + " ~"
}

func (n *Delete) String() string {
	var b strings.Builder
	b.WriteString(n.Table)
	b.WriteString(" !")
	writeFilters(&b, n.Filters)
	return b.String()
}

func (n *Update) String() string {
	var b strings.Builder
	b.WriteString(n.Table)
	b.WriteString(" := ")
	b.WriteString(n.Assigns.String())
	writeFilters(&b, n.Filters)
	return b.String()
}

func writeFilters(b *strings.Builder, filters []*Filter) {
	for _, f := range filters {
		b.WriteByte(' ')
		b.WriteString(f.String())
	}
}

func (n *Insert) String() string {
	var b strings.Builder
	b.WriteString(n.Table)
	for _, row := range n.Rows {
		b.WriteString(" <- ")
		b.WriteString(row.String())
	}
	return b.String()
}

func (n *NameTypeList) String() string {
	pairs := make([]string, len(n.Pairs))
	for i, p := range n.Pairs {
		pairs[i] = p.String()
	}
	return strings.Join(pairs, ", ")
}

func (n *NameTypePair) String() string {
	if n.Type == TypeChars {
		return fmt.Sprintf("%s: %v(%s)", n.Name, n.Type, n.Width)
	}
	return fmt.Sprintf("%s: %v", n.Name, n.Type)
}

func (n *Filter) String() string {
	return "? " + n.Cond.String()
}

func (n *AssignList) String() string {
	assigns := make([]string, len(n.Assigns))
	for i, a := range n.Assigns {
		assigns[i] = a.String()
	}
	return strings.Join(assigns, ", ")
}

func (n *Assign) String() string {
	return fmt.Sprintf("%s(%v)", n.Column, n.Value)
}

func (n *ExpressionList) String() string {
	exprs := make([]string, len(n.Exprs))
	for i, e := range n.Exprs {
		exprs[i] = e.String()
	}
	return strings.Join(exprs, ", ")
}

func binary(lhs Node, op string, rhs Node) string {
	return fmt.Sprintf("(%v %s %v)", lhs, op, rhs)
}

func (n *Or) String() string {
	return binary(n.LHS, "||", n.RHS)
}

func (n *And) String() string {
	return binary(n.LHS, "&&", n.RHS)
}

func (n *Equality) String() string {
	return binary(n.LHS, n.Op.String(), n.RHS)
}

func (n *Relational) String() string {
	return binary(n.LHS, n.Op.String(), n.RHS)
}

func (n *Additive) String() string {
	return binary(n.LHS, n.Op.String(), n.RHS)
}

func (n *Multiplicative) String() string {
	return binary(n.LHS, n.Op.String(), n.RHS)
}

func (n *Identifier) String() string {
	return n.Name
}

func (n *IntLiteral) String() string {
	return strconv.FormatInt(int64(n.Value), 10)
}

// String always includes a decimal point, so the text lexes as a float.
func (n *FloatLiteral) String() string {
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (n *BoolLiteral) String() string {
	return strconv.FormatBool(n.Value)
}

func (n *CharsLiteral) String() string {
	return `"` + n.Value + `"`
}

func (n *Select) String() string {
	return fmt.Sprintf("%v ? %v", n.LHS, n.Cond)
}

func (n *Project) String() string {
	return fmt.Sprintf("(%v -> %v)", n.LHS, n.Columns)
}

func (n *ColumnList) String() string {
	cols := make([]string, len(n.Columns))
	for i, c := range n.Columns {
		cols[i] = c.Name
	}
	return strings.Join(cols, ", ")
}

func (n *Union) String() string {
	return binary(n.LHS, "|", n.RHS)
}

func (n *Difference) String() string {
	return binary(n.LHS, "-", n.RHS)
}

func (n *Intersect) String() string {
	return binary(n.LHS, "&", n.RHS)
}

func (n *Join) String() string {
	return binary(n.LHS, "^", n.RHS)
}
