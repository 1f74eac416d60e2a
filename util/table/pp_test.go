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


package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PrettyPrint_utf8(t *testing.T) {
	assert := assert.New(t)
	var buf strings.Builder
	assert.NoError(PrettyPrint(&buf, [][]string{
		{"Beyoncé"},
		{"A longer thing"},
	}, RightJustify))
	assert.Equal(`
        Beyoncé |
 A longer thing |
`, "\n"+buf.String())
}

func Test_PrettyPrintJustify(t *testing.T) {
	table := [][]string{
		{"table", "created"},
		{"emp", "1"},
	}
	t.Run("Left", func(t *testing.T) {
		buf := strings.Builder{}
		assert.NoError(t, PrettyPrint(&buf, table, HeaderRow))
		assert.Equal(t, `
 table | created |
 ----- | ------- |
 emp   | 1       |
`, "\n"+buf.String())
	})
	t.Run("Right", func(t *testing.T) {
		buf := strings.Builder{}
		assert.NoError(t, PrettyPrint(&buf, table, HeaderRow|RightJustify))
		assert.Equal(t, `
 table | created |
 ----- | ------- |
   emp |       1 |
`, "\n"+buf.String())
	})
}

func Test_FooterRow(t *testing.T) {
	buf := strings.Builder{}
	assert.NoError(t, PrettyPrint(&buf, [][]string{
		{"table", "reads"},
		{"emp", "2"},
		{"dept", "1"},
		{"total", "3"},
	}, HeaderRow|FooterRow))
	assert.Equal(t, `
 table | reads |
 ----- | ----- |
 emp   | 2     |
 dept  | 1     |
 ----- | ----- |
 total | 3     |
`, "\n"+buf.String())
}

func Test_RaggedRows(t *testing.T) {
	buf := strings.Builder{}
	assert.NoError(t, PrettyPrint(&buf, [][]string{
		{"a", "b"},
		{"c"},
		{"d", "e", "dropped"},
	}, 0))
	assert.Equal(t, `
 a | b |
 c |   |
 d | e |
`, "\n"+buf.String())
}

func Test_SkipEmpty(t *testing.T) {
	assert := assert.New(t)
	headers := [][]string{
		{"table", "reads"},
	}
	buf := strings.Builder{}
	assert.NoError(PrettyPrint(&buf, headers, SkipEmpty|HeaderRow))
	assert.Equal("", buf.String())

	buf.Reset()
	assert.NoError(PrettyPrint(&buf, headers, SkipEmpty|FooterRow))
	assert.Equal("", buf.String())

	buf.Reset()
	assert.NoError(PrettyPrint(&buf, headers, SkipEmpty))
	assert.Equal(" table | reads |\n", buf.String())

	buf.Reset()
	assert.NoError(PrettyPrint(&buf, nil, 0))
	assert.Equal("", buf.String())
}

func Test_MultilineCell(t *testing.T) {
	assert := assert.New(t)
	table := [][]string{
		{"statement", "kind"},
		{"t = a:int,\nb:bool", "create"},
	}
	buf := strings.Builder{}
	assert.NoError(PrettyPrint(&buf, table, HeaderRow))
	assert.Equal(`
 statement  | kind   |
 ---------- | ------ |
 t = a:int, | create |
 b:bool     |        |
`, "\n"+buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func Test_PrettyPrintWriteError(t *testing.T) {
	err := PrettyPrint(failingWriter{}, [][]string{{"a"}}, 0)
	assert.EqualError(t, err, "disk full")
}

func Test_charsWide(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		s string
		w int
	}{
		{"Aeyonce", 7},
		{"Beyoncé", 7},
		{"Ceyoncé", 7},
		{"Deyonc\u00e9", 7},
		{"表", 2},
		{"ｔ1", 3},
	}
	for _, test := range tests {
		assert.Equal(test.w, charsWide(test.s), "Incorrect width for %#v", test.s)
	}
}
