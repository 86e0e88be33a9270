// Package xmlstream is the runtime XML writer generated serializers target.
//
// An element is built in two phases: StartElement returns an open Element
// whose attribute set can still be extended; Finish writes the start tag,
// freezing the attributes, and returns a Scope for child content. Nothing is
// written to the underlying buffer until Finish, so a serializer that fails
// before finishing an element leaves no partial output behind.
package xmlstream

import "bytes"

// Writer roots a document in the caller-owned buffer.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter returns a writer appending to buf.
func NewWriter(buf *bytes.Buffer) *Writer {
	return &Writer{buf: buf}
}

// StartElement opens the root element.
func (w *Writer) StartElement(name string) *Element {
	return &Element{buf: w.buf, name: name}
}

type attr struct {
	name  string
	value string
}

// Element is a start tag under construction. Attributes may be added until
// Finish is called.
type Element struct {
	buf      *bytes.Buffer
	name     string
	attrs    []attr
	finished bool
}

// Attr adds an attribute to the element. The value is escaped. Calling Attr
// after Finish is a programming error in the generated code.
func (e *Element) Attr(name, value string) {
	if e.finished {
		panic("xmlstream: attribute added to finished element " + e.name)
	}
	e.attrs = append(e.attrs, attr{name: name, value: value})
}

// Finish writes the start tag, freezing the attribute set, and returns the
// scope for the element's children.
func (e *Element) Finish() *Scope {
	if e.finished {
		panic("xmlstream: element " + e.name + " finished twice")
	}
	e.finished = true
	e.buf.WriteByte('<')
	e.buf.WriteString(e.name)
	for _, a := range e.attrs {
		e.buf.WriteByte(' ')
		e.buf.WriteString(a.name)
		e.buf.WriteString(`="`)
		writeEscapedAttr(e.buf, a.value)
		e.buf.WriteByte('"')
	}
	e.buf.WriteByte('>')
	return &Scope{buf: e.buf, name: e.name}
}

// Scope is an open element accepting child elements or text.
type Scope struct {
	buf  *bytes.Buffer
	name string
}

// StartElement opens a child element.
func (s *Scope) StartElement(name string) *Element {
	return &Element{buf: s.buf, name: name}
}

// Text writes escaped character data.
func (s *Scope) Text(v string) {
	writeEscapedText(s.buf, v)
}

// Close writes the end tag.
func (s *Scope) Close() {
	s.buf.WriteString("</")
	s.buf.WriteString(s.name)
	s.buf.WriteByte('>')
}
