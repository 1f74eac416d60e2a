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


package graphviz

import (
	"fmt"
	"strings"

	p "github.com/vektah/goparsify"
)

// Graph is an undirected graph read by Parse.
type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

// Node is a node statement. Label holds the text between the quotes as
// written, escapes included, so a DOT line break appears as a backslash
// followed by 'n'.
type Node struct {
	ID    string
	Label string
}

// Edge connects two nodes.
type Edge struct {
	From string
	To   string
}

// Label returns the label of the node with the given ID, and whether such a
// node exists.
func (g *Graph) Label(id string) (string, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n.Label, true
		}
	}
	return "", false
}

// Children returns the IDs connected to 'from' by edges that start there, in
// the order the edges appear.
func (g *Graph) Children(from string) []string {
	var ids []string
	for _, e := range g.Edges {
		if e.From == from {
			ids = append(ids, e.To)
		}
	}
	return ids
}

var graphParser p.Parser

func init() {
	id := p.Chars("A-Za-z0-9_", 1)
	edge := p.Seq(id, "--", p.Cut(), id, ";").Map(func(n *p.Result) {
		n.Result = Edge{From: n.Child[0].Token, To: n.Child[3].Token}
	})
	node := p.Seq(id, "[", p.Cut(), "label", "=", quotedLabel(), "]", ";").Map(func(n *p.Result) {
		n.Result = Node{ID: n.Child[0].Token, Label: n.Child[5].Token}
	})
	graphParser = p.Seq("graph", p.Cut(), id, "{", p.Some(p.Any(edge, node)), "}").Map(func(n *p.Result) {
		g := &Graph{Name: n.Child[2].Token}
		for _, c := range n.Child[4].Child {
			switch stmt := c.Result.(type) {
			case Node:
				g.Nodes = append(g.Nodes, stmt)
			case Edge:
				g.Edges = append(g.Edges, stmt)
			}
		}
		n.Result = g
	})
}

// quotedLabel parses a double-quoted string and returns the raw text between
// the quotes as the Token. A backslash escapes the character after it, so \"
// doesn't end the string.
func quotedLabel() p.Parser {
	return p.NewParser("quoted label", func(ps *p.State, node *p.Result) {
		ps.WS(ps)
		in := ps.Get()
		if len(in) == 0 || in[0] != '"' {
			ps.ErrorHere(`"`)
			return
		}
		for i := 1; i < len(in); i++ {
			switch in[i] {
			case '\\':
				i++
			case '"':
				node.Token = in[1:i]
				ps.Advance(i + 1)
				return
			}
		}
		ps.ErrorHere(`closing "`)
	})
}

// Parse reads an undirected graph made only of node statements with a label
// attribute and edge statements between two nodes.
func Parse(text string) (*Graph, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("graphviz: empty input")
	}
	result, err := p.Run(graphParser, text)
	if err != nil {
		return nil, fmt.Errorf("graphviz: %v", err)
	}
	return result.(*Graph), nil
}
