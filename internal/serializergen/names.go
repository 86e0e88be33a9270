package serializergen

import (
	"unicode"
	"unicode/utf8"

	"github.com/protoforge/queryxml/internal/gowriter"
	"github.com/protoforge/queryxml/model"
)

// exportName capitalizes the first rune, producing an exported Go identifier
// or the capitalized default wire name.
func exportName(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// wireName resolves a member's effective wire name. The protocol-specific
// override takes strict precedence over the generic one; both fall back to
// the member's own name. Generic and fallback names are capitalized, the
// protocol-specific name is used verbatim.
func wireName(m *model.Member) string {
	if name, ok := m.Traits.String(model.TraitQueryName); ok && name != "" {
		return name
	}
	if name, ok := m.Traits.String(model.TraitXMLName); ok && name != "" {
		return exportName(name)
	}
	return exportName(m.Name)
}

// symbol returns the Go type expression of the shape's value type.
func (g *Generator) symbol(id model.ShapeID) string {
	return g.opts.Symbols(id)
}

// ptrSymbol returns the pointer form used for structure values.
func (g *Generator) ptrSymbol(id model.ShapeID) string {
	return "*" + g.symbol(id)
}

func (g *Generator) importTypes(w *gowriter.Writer) {
	if g.opts.TypesImport != "" {
		w.Import(g.opts.TypesImport)
	}
}
