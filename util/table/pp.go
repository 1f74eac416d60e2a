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


// Package table formats rows of text into an aligned table for people to read.
package table

import (
	"bufio"
	"io"
	"strings"

	"github.com/ebay/micrordb/util/cmp"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Options control how the table is generated.
type Options int

const (
	// HeaderRow separates the first row from the rest with a divider.
	HeaderRow Options = 1 << iota
	// FooterRow separates the last row from the rest with a divider.
	FooterRow
	// SkipEmpty writes nothing when the table has no rows besides its header
	// and footer rows.
	SkipEmpty
	// RightJustify pads cells on the left instead of the right.
	RightJustify
)

func (o Options) chromeRows() int {
	r := 0
	if o&HeaderRow != 0 {
		r++
	}
	if o&FooterRow != 0 {
		r++
	}
	return r
}

// PrettyPrint writes 't' as a table to 'dest'. Cells may span several lines
// separated by \n. Rows shorter than the first row are padded with empty
// cells; extra cells beyond the first row's width are dropped. It returns the
// first error from writing.
func PrettyPrint(dest io.Writer, t [][]string, opts Options) error {
	if len(t) == 0 || (opts&SkipEmpty != 0 && len(t) <= opts.chromeRows()) {
		return nil
	}
	w := bufio.NewWriterSize(dest, 256)
	numCols := len(t[0])
	table := make([][]cell, len(t))
	for ridx, row := range t {
		table[ridx] = make([]cell, numCols)
		for cidx := range table[ridx] {
			if cidx < len(row) {
				table[ridx][cidx] = makeCell(row[cidx])
			} else {
				table[ridx][cidx] = makeCell("")
			}
		}
	}
	widths := make([]int, numCols)
	for cidx := range widths {
		for ridx := range table {
			widths[cidx] = cmp.MaxInt(widths[cidx], table[ridx][cidx].width)
		}
	}
	divider := func() {
		for _, wd := range widths {
			w.WriteString(" ")
			w.WriteString(strings.Repeat("-", wd))
			w.WriteString(" |")
		}
		w.WriteString("\n")
	}
	for ridx, r := range table {
		height := 0
		for cidx := range r {
			height = cmp.MaxInt(height, len(r[cidx].lines))
		}
		for cidx := range r {
			r[cidx].pad(opts, height, widths[cidx])
		}
		for lidx := 0; lidx < height; lidx++ {
			for cidx := range r {
				w.WriteString(" ")
				w.WriteString(r[cidx].lines[lidx])
				w.WriteString(" |")
			}
			w.WriteString("\n")
		}
		if (opts&HeaderRow != 0 && ridx == 0) || (opts&FooterRow != 0 && ridx == len(table)-2) {
			divider()
		}
	}
	return w.Flush()
}

type cell struct {
	lines []string
	width int
}

func makeCell(s string) cell {
	c := cell{
		lines: strings.Split(s, "\n"),
	}
	for _, l := range c.lines {
		c.width = cmp.MaxInt(c.width, charsWide(l))
	}
	return c
}

// pad grows the cell to the given size, which must be at least as large as
// it currently is.
func (c *cell) pad(opts Options, height, width int) {
	for len(c.lines) < height {
		c.lines = append(c.lines, "")
	}
	for i, l := range c.lines {
		lwidth := charsWide(l)
		if lwidth < width {
			pad := strings.Repeat(" ", width-lwidth)
			if opts&RightJustify != 0 {
				c.lines[i] = pad + l
			} else {
				c.lines[i] = l + pad
			}
		}
	}
	c.width = width
}

// charsWide estimates how many columns a string takes on a typical terminal.
// Combining sequences are composed first, and wide East Asian characters count
// as two columns.
func charsWide(s string) int {
	s = norm.NFC.String(s)
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
