package serializergen

import (
	"fmt"

	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/internal/gowriter"
	"github.com/protoforge/queryxml/internal/memberbind"
	"github.com/protoforge/queryxml/model"
)

// emitStructure generates the procedure for a structure shape. The procedure
// receives the still-open element so attribute members can be applied before
// the start tag is written; it finishes and closes the element itself.
func (g *Generator) emitStructure(s *model.Shape, fn string) (*gowriter.Writer, error) {
	w := gowriter.New()
	w.Import(xmlstreamImport)
	g.importTypes(w)

	bound := memberbind.Classify(s.Members)
	w.OpenBlock("func %s(v %s, el *xmlstream.Element) error", fn, g.ptrSymbol(s.ID))
	if bound.Empty() {
		// a structure with no members degenerates to an empty element and
		// must never read fields off the value
		w.Line("el.Finish().Close()")
		w.Line("return nil")
		w.CloseBlock()
		return w, nil
	}

	for _, m := range bound.Attributes {
		if err := g.emitAttribute(w, m); err != nil {
			return nil, err
		}
	}

	if len(bound.Data) == 0 {
		w.Line("el.Finish().Close()")
		w.Line("return nil")
		w.CloseBlock()
		return w, nil
	}

	w.Line("scope := el.Finish()")
	for _, m := range bound.Data {
		if err := g.emitDataMember(w, m); err != nil {
			return nil, err
		}
	}
	w.Line("scope.Close()")
	w.Line("return nil")
	w.CloseBlock()
	return w, nil
}

// emitAttribute applies one attribute member to the open element. Attribute
// members never recurse: they are always reduced to the raw scalar path.
func (g *Generator) emitAttribute(w *gowriter.Writer, m *model.Member) error {
	target, err := g.model.Expect(m.Target)
	if err != nil {
		return err
	}
	field := "v." + exportName(m.Name)
	name := wireName(m)

	if target.Kind == model.KindTimestamp {
		formatConst, err := timestampFormatConst(m, target)
		if err != nil {
			return err
		}
		w.Import(timefmtImport)
		w.Import(serdeImport)
		w.OpenBlock("if %s != nil", field)
		w.Linef("ts, err := timefmt.Encode(*%s, %s)", field, formatConst)
		w.OpenBlock("if err != nil")
		w.Line("return &serde.SerializationError{Err: err}")
		w.CloseBlock()
		w.Linef("el.Attr(%q, ts)", name)
		w.CloseBlock()
		return nil
	}

	guard, deref, err := g.memberAccess(m, target)
	if err != nil {
		return err
	}
	expr, err := attrFormatExpr(target, deref, w)
	if err != nil {
		return err
	}
	if guard == "" {
		w.Linef("el.Attr(%q, %s)", name, expr)
		return nil
	}
	w.OpenBlock("if %s", guard)
	w.Linef("el.Attr(%q, %s)", name, expr)
	w.CloseBlock()
	return nil
}

// emitDataMember serializes one data member into the open "scope" variable.
func (g *Generator) emitDataMember(w *gowriter.Writer, m *model.Member) error {
	target, err := g.model.Expect(m.Target)
	if err != nil {
		return err
	}
	field := "v." + exportName(m.Name)
	name := wireName(m)
	ns := memberNamespace(m, target)

	guard, deref, err := g.memberAccess(m, target)
	if err != nil {
		return err
	}
	if guard == "" {
		w.Line("{")
		w.In()
	} else {
		w.OpenBlock("if %s", guard)
	}

	switch target.Kind {
	case model.KindString, model.KindEnum, model.KindBoolean, model.KindNumber,
		model.KindBlob, model.KindTimestamp:
		if err := g.emitScalarInto(w, m, target, "scope", name, ns, deref); err != nil {
			return err
		}

	case model.KindStructure:
		inner, err := g.shapeSerializer(target.ID)
		if err != nil {
			return err
		}
		w.Linef("child := scope.StartElement(%q)", name)
		emitNamespaceAttr(w, "child", ns)
		w.OpenBlock("if err := %s(%s, child); err != nil", inner, field)
		w.Line("return err")
		w.CloseBlock()

	case model.KindUnion:
		inner, err := g.shapeSerializer(target.ID)
		if err != nil {
			return err
		}
		w.Linef("child := scope.StartElement(%q)", name)
		emitNamespaceAttr(w, "child", ns)
		w.OpenBlock("if err := %s(%s, child); err != nil", inner, field)
		w.Line("return err")
		w.CloseBlock()

	case model.KindList, model.KindSet:
		if err := g.emitCollectionMember(w, m, target, "scope", field); err != nil {
			return err
		}

	case model.KindMap:
		if err := g.emitMapMember(w, m, target, "scope", field); err != nil {
			return err
		}

	case model.KindOperation, model.KindService:
		return errors.Newf(errors.ErrUnsupportedKind,
			"member %s targets %s shape %s", m.Name, target.Kind, target.ID)
	default:
		return errors.Newf(errors.ErrUnsupportedKind,
			"no serialization rule for member %s targeting kind %s", m.Name, target.Kind)
	}

	w.CloseBlock()
	return nil
}

// emitCollectionMember writes a list or set member: flattened members place
// items as siblings named by the member's wire name; unflattened members open
// a wrapper named by the member and place items inside it under the
// collection's configured item name.
func (g *Generator) emitCollectionMember(w *gowriter.Writer, m *model.Member, target *model.Shape, scopeVar, field string) error {
	proc, err := g.shapeSerializer(target.ID)
	if err != nil {
		return err
	}
	if m.Traits.Has(model.TraitXMLFlattened) {
		// flattened items become siblings, so the member's declaration is
		// repeated on each of them
		nsAttr, nsURI := nsArgs(memberNamespace(m, target))
		w.OpenBlock("if err := %s(%s, %s, %q, %q, %q); err != nil", proc, field, scopeVar, wireName(m), nsAttr, nsURI)
		w.Line("return err")
		w.CloseBlock()
		return nil
	}
	if target.ListMember == nil {
		return errors.Newf(errors.ErrMalformedModel, "collection %s has no member", target.ID)
	}
	itemName := innerWireName(target.ListMember, "member")
	itemAttr, itemURI := nsArgs(ownNamespace(target.ListMember))
	ns := memberNamespace(m, target)
	w.Linef("wrapper := %s.StartElement(%q)", scopeVar, wireName(m))
	emitNamespaceAttr(w, "wrapper", ns)
	w.Line("items := wrapper.Finish()")
	w.OpenBlock("if err := %s(%s, items, %q, %q, %q); err != nil", proc, field, itemName, itemAttr, itemURI)
	w.Line("return err")
	w.CloseBlock()
	w.Line("items.Close()")
	return nil
}

// emitMapMember mirrors emitCollectionMember for maps: the entry name is the
// member's wire name when flattened, else the entry-name trait or its default
// inside a wrapper.
func (g *Generator) emitMapMember(w *gowriter.Writer, m *model.Member, target *model.Shape, scopeVar, field string) error {
	proc, err := g.shapeSerializer(target.ID)
	if err != nil {
		return err
	}
	if m.Traits.Has(model.TraitXMLFlattened) {
		nsAttr, nsURI := nsArgs(memberNamespace(m, target))
		w.OpenBlock("if err := %s(%s, %s, %q, %q, %q); err != nil", proc, field, scopeVar, wireName(m), nsAttr, nsURI)
		w.Line("return err")
		w.CloseBlock()
		return nil
	}
	entryName := "entry"
	if name, ok := m.Traits.String(model.TraitEntryName); ok && name != "" {
		entryName = name
	}
	ns := memberNamespace(m, target)
	w.Linef("wrapper := %s.StartElement(%q)", scopeVar, wireName(m))
	emitNamespaceAttr(w, "wrapper", ns)
	w.Line("entries := wrapper.Finish()")
	w.OpenBlock("if err := %s(%s, entries, %q, %q, %q); err != nil", proc, field, entryName, "", "")
	w.Line("return err")
	w.CloseBlock()
	w.Line("entries.Close()")
	return nil
}

// memberAccess returns the presence guard and dereferenced value expression
// for a structure member. An empty guard means the member is value-typed and
// always emitted.
func (g *Generator) memberAccess(m *model.Member, target *model.Shape) (guard, deref string, err error) {
	field := "v." + exportName(m.Name)
	switch target.Kind {
	case model.KindEnum:
		return fmt.Sprintf("len(%s) > 0", field), field, nil
	case model.KindBlob:
		return fmt.Sprintf("%s != nil", field), field, nil
	case model.KindList, model.KindSet, model.KindMap, model.KindUnion:
		return fmt.Sprintf("%s != nil", field), field, nil
	case model.KindBoolean, model.KindNumber:
		def, ok := m.Traits.Default()
		if !ok {
			return fmt.Sprintf("%s != nil", field), "*" + field, nil
		}
		// defaulted members are value-typed; the wire payload elides values
		// equal to the default only under the ignore-defaults policy
		lit, err := defaultLiteral(target, def)
		if err != nil {
			return "", "", err
		}
		if g.opts.IgnoreDefaults {
			return fmt.Sprintf("%s != %s", field, lit), field, nil
		}
		return "", field, nil
	default:
		return fmt.Sprintf("%s != nil", field), "*" + field, nil
	}
}

// emitScalarInto writes one scalar element named name into scopeVar from the
// already dereferenced value expression.
func (g *Generator) emitScalarInto(w *gowriter.Writer, m *model.Member, target *model.Shape, scopeVar, name string, ns *model.Namespace, deref string) error {
	open := func() {
		if ns == nil {
			w.Linef("inner := %s.StartElement(%q).Finish()", scopeVar, name)
			return
		}
		w.Linef("elem := %s.StartElement(%q)", scopeVar, name)
		emitNamespaceAttr(w, "elem", ns)
		w.Line("inner := elem.Finish()")
	}

	switch target.Kind {
	case model.KindString:
		open()
		w.Linef("inner.Text(%s)", deref)
	case model.KindEnum:
		open()
		w.Linef("inner.Text(string(%s))", deref)
	case model.KindBoolean:
		open()
		w.Linef("inner.Boolean(%s)", deref)
	case model.KindNumber:
		open()
		w.Linef("inner.%s(%s)", encoderMethod(target.Number), deref)
	case model.KindBlob:
		open()
		w.Linef("inner.Base64(%s)", deref)
	case model.KindTimestamp:
		formatConst, err := timestampFormatConst(m, target)
		if err != nil {
			return err
		}
		w.Import(timefmtImport)
		w.Import(serdeImport)
		w.Linef("ts, err := timefmt.Encode(%s, %s)", deref, formatConst)
		w.OpenBlock("if err != nil")
		w.Line("return &serde.SerializationError{Err: err}")
		w.CloseBlock()
		open()
		w.Line("inner.Text(ts)")
	default:
		return errors.Newf(errors.ErrUnsupportedKind,
			"kind %s is not a scalar", target.Kind)
	}
	w.Line("inner.Close()")
	return nil
}

// memberNamespace returns the explicit namespace override of a nested
// element, if any. Roots are handled separately; nested elements repeat no
// inherited declaration.
func memberNamespace(m *model.Member, target *model.Shape) *model.Namespace {
	if ns, ok := m.Traits.Namespace(); ok {
		return &ns
	}
	if ns, ok := target.Traits.Namespace(); ok {
		return &ns
	}
	return nil
}

// ownNamespace returns the member's own namespace trait, ignoring any
// declaration on its target shape. Synthetic item and entry members carry
// their traits directly.
func ownNamespace(m *model.Member) *model.Namespace {
	if m == nil {
		return nil
	}
	if ns, ok := m.Traits.Namespace(); ok {
		return &ns
	}
	return nil
}

// nsArgs renders a namespace as the attribute-name/URI argument pair passed
// to generated collection and map procedures. Nil yields empty strings, which
// the procedure treats as no declaration.
func nsArgs(ns *model.Namespace) (string, string) {
	if ns == nil {
		return "", ""
	}
	return namespaceAttr(*ns), ns.URI
}

func emitNamespaceAttr(w *gowriter.Writer, elemVar string, ns *model.Namespace) {
	if ns == nil {
		return
	}
	w.Linef("%s.Attr(%q, %q)", elemVar, namespaceAttr(*ns), ns.URI)
}

// innerWireName resolves the element name of a synthetic collection or map
// member: explicit overrides go through the naming rule, absent traits fall
// back to the protocol's lower-case default.
func innerWireName(m *model.Member, def string) string {
	if name, ok := m.Traits.String(model.TraitQueryName); ok && name != "" {
		return name
	}
	if name, ok := m.Traits.String(model.TraitXMLName); ok && name != "" {
		return exportName(name)
	}
	return def
}
