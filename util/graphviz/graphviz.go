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


// Package graphviz renders DOT graphs to images and reads back the simple
// undirected graphs that micrordb emits.
package graphviz

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ebay/micrordb/util/parallel"
	log "github.com/sirupsen/logrus"
)

// Filetype is the file format of output image.
type Filetype int

// Supported Filetypes.
const (
	PDF Filetype = 1
	PNG Filetype = 2
	SVG Filetype = 3
)

func (f Filetype) String() string {
	switch f {
	case PDF:
		return "pdf"
	case PNG:
		return "png"
	case SVG:
		return "svg"
	}
	return fmt.Sprintf("Filetype(%d)", int(f))
}

// ParseFiletype returns the Filetype named by format, which is
// case-insensitive.
func ParseFiletype(format string) (Filetype, error) {
	switch strings.ToLower(format) {
	case "pdf":
		return PDF, nil
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return 0, fmt.Errorf("unknown graphviz format: %q", format)
}

// Options to Create.
type Options struct {
	// Unless provided, Create will attempt to autodetect this from the filename.
	Filetype Filetype
}

// dotProgram is the Graphviz executable. Tests may replace it.
var dotProgram = "dot"

// Create writes an image file from a Graphviz spec. It invokes the "dot"
// program internally. 'generate' should write the Graphviz spec into the given
// writer.
func Create(filename string, generate func(io.Writer) error, options Options) error {
	if options.Filetype == 0 {
		ext := strings.TrimPrefix(filepath.Ext(filename), ".")
		ft, err := ParseFiletype(ext)
		if err != nil {
			return fmt.Errorf("could not determine filetype from filename: %v", filename)
		}
		options.Filetype = ft
	}
	switch options.Filetype {
	case PDF, PNG, SVG:
	default:
		log.Panicf("Unknown file type: %v", options.Filetype)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	cmd := exec.Command(dotProgram, "-T"+options.Filetype.String())
	cmd.Stdout = file
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	var errOut strings.Builder
	cmd.Stderr = &errOut
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error starting %v: %v", dotProgram, err)
	}
	wait := parallel.GoCaptureError(func() error {
		defer stdin.Close()
		return generate(stdin)
	})
	genErr := wait()
	err = cmd.Wait()
	if err != nil {
		return fmt.Errorf("error executing dot. Stderr: %v", errOut.String())
	}
	if genErr != nil {
		return fmt.Errorf("error generating graph for %v: %v", filename, genErr)
	}
	return file.Close()
}
