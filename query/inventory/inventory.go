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


// Package inventory summarizes which tables a program touches and how.
package inventory

import (
	"strconv"

	"github.com/ebay/micrordb/query/ast"
	"github.com/google/btree"
)

// Usage counts the statements in a program that use one table.
type Usage struct {
	Table    string `json:"table"`
	Created  int    `json:"created"`
	Dropped  int    `json:"dropped"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
	// The number of times the table is an operand of a query, including the
	// source of a create statement.
	Read int `json:"read"`
	// The columns given by the last create statement that declared them, in
	// declaration order.
	Columns []string `json:"columns,omitempty"`
}

// Less orders Usage items by table name in the btree.
func (u *Usage) Less(other btree.Item) bool {
	return u.Table < other.(*Usage).Table
}

// Inventory is an ordered set of Usage, keyed by table name.
type Inventory struct {
	tables *btree.BTree
}

// New returns an empty Inventory.
func New() *Inventory {
	return &Inventory{tables: btree.New(8)}
}

// Build returns the inventory of every table used in script.
func Build(script *ast.Script) *Inventory {
	inv := New()
	inv.Add(script)
	return inv
}

// Add counts the statements of script into the inventory.
func (inv *Inventory) Add(script *ast.Script) {
	for _, stmt := range script.Statements {
		switch s := stmt.(type) {
		case *ast.Create:
			u := inv.usage(s.Table)
			u.Created++
			switch src := s.Source.(type) {
			case *ast.NameTypeList:
				u.Columns = make([]string, 0, len(src.Pairs))
				for _, pair := range src.Pairs {
					u.Columns = append(u.Columns, pair.Name)
				}
			case ast.TableExpr:
				inv.read(src)
			}
		case *ast.Drop:
			inv.usage(s.Table).Dropped++
		case *ast.Insert:
			inv.usage(s.Table).Inserted++
		case *ast.Update:
			inv.usage(s.Table).Updated++
		case *ast.Delete:
			inv.usage(s.Table).Deleted++
		case ast.TableExpr:
			inv.read(s)
		}
	}
}

// read counts every table operand of a query.
func (inv *Inventory) read(expr ast.TableExpr) {
	switch e := expr.(type) {
	case *ast.Identifier:
		inv.usage(e.Name).Read++
	case *ast.Select:
		inv.read(e.LHS)
	case *ast.Project:
		inv.read(e.LHS)
	case *ast.Union:
		inv.read(e.LHS)
		inv.read(e.RHS)
	case *ast.Difference:
		inv.read(e.LHS)
		inv.read(e.RHS)
	case *ast.Intersect:
		inv.read(e.LHS)
		inv.read(e.RHS)
	case *ast.Join:
		inv.read(e.LHS)
		inv.read(e.RHS)
	}
}

// usage returns the entry for table, creating it if needed.
func (inv *Inventory) usage(table string) *Usage {
	if item := inv.tables.Get(&Usage{Table: table}); item != nil {
		return item.(*Usage)
	}
	u := &Usage{Table: table}
	inv.tables.ReplaceOrInsert(u)
	return u
}

// Len returns the number of distinct tables.
func (inv *Inventory) Len() int {
	return inv.tables.Len()
}

// Get returns a copy of the usage for table, if it appears in the inventory.
func (inv *Inventory) Get(table string) (Usage, bool) {
	item := inv.tables.Get(&Usage{Table: table})
	if item == nil {
		return Usage{}, false
	}
	return *item.(*Usage), true
}

// Tables returns a copy of every entry, ordered by table name.
func (inv *Inventory) Tables() []Usage {
	res := make([]Usage, 0, inv.tables.Len())
	inv.tables.Ascend(func(item btree.Item) bool {
		res = append(res, *item.(*Usage))
		return true
	})
	return res
}

// Header names the columns of Rows.
var Header = []string{"table", "created", "dropped", "inserted", "updated", "deleted", "read"}

// Rows returns Header followed by one row per table, ordered by table name.
func (inv *Inventory) Rows() [][]string {
	rows := [][]string{Header}
	inv.tables.Ascend(func(item btree.Item) bool {
		u := item.(*Usage)
		rows = append(rows, []string{
			u.Table,
			strconv.Itoa(u.Created),
			strconv.Itoa(u.Dropped),
			strconv.Itoa(u.Inserted),
			strconv.Itoa(u.Updated),
			strconv.Itoa(u.Deleted),
			strconv.Itoa(u.Read),
		})
		return true
	})
	return rows
}
