// Package gowriter accumulates generated Go source as indented snippets and
// assembles them into a formatted file. Formatting runs the goimports
// pipeline, so assembly is also a syntax check of the emitted code.
package gowriter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/protoforge/queryxml/errors"
)

const header = "// Code generated by queryxmlgen. DO NOT EDIT."

// Writer accumulates one snippet of generated source.
type Writer struct {
	buf     bytes.Buffer
	indent  int
	imports map[string]struct{}
}

// New returns an empty snippet writer.
func New() *Writer {
	return &Writer{imports: make(map[string]struct{})}
}

// Import records an import path the snippet depends on.
func (w *Writer) Import(path string) {
	w.imports[path] = struct{}{}
}

// In increases the indentation level.
func (w *Writer) In() {
	w.indent++
}

// Out decreases the indentation level.
func (w *Writer) Out() {
	if w.indent > 0 {
		w.indent--
	}
}

// Line writes one indented line.
func (w *Writer) Line(s string) {
	if s == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.buf.WriteString(strings.Repeat("\t", w.indent))
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// Linef writes one indented formatted line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// OpenBlock writes the line with an opening brace and indents.
func (w *Writer) OpenBlock(format string, args ...any) {
	w.Linef(format+" {", args...)
	w.In()
}

// CloseBlock dedents and writes the closing brace.
func (w *Writer) CloseBlock() {
	w.Out()
	w.Line("}")
}

// Assemble joins the snippets into one file in the given package, merges
// their imports and formats the result. A formatting failure means the
// generator emitted invalid source and aborts the run.
func Assemble(pkg string, snippets ...*Writer) ([]byte, error) {
	merged := make(map[string]struct{})
	var body bytes.Buffer
	for _, s := range snippets {
		for path := range s.imports {
			merged[path] = struct{}{}
		}
		body.Write(s.buf.Bytes())
		body.WriteByte('\n')
	}

	var src bytes.Buffer
	src.WriteString(header)
	src.WriteString("\n\npackage ")
	src.WriteString(pkg)
	src.WriteString("\n\n")
	if len(merged) > 0 {
		paths := make([]string, 0, len(merged))
		for path := range merged {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		src.WriteString("import (\n")
		for _, path := range paths {
			fmt.Fprintf(&src, "\t%q\n", path)
		}
		src.WriteString(")\n\n")
	}
	src.Write(body.Bytes())

	out, err := imports.Process(pkg+".go", src.Bytes(), nil)
	if err != nil {
		return nil, errors.Newf(errors.ErrFormat, "format generated source: %v", err)
	}
	return out, nil
}
