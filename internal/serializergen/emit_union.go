package serializergen

import (
	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/internal/gowriter"
	"github.com/protoforge/queryxml/model"
)

// emitUnion generates the procedure for a union shape: an exhaustive type
// switch over the declared variant wrapper types, each serialized as exactly
// one child element, plus a catch-all arm that fails with a named
// unknown-variant error before anything is written. The generation target is
// open-world, so values of variants unknown at generation time can reach the
// serializer at runtime.
func (g *Generator) emitUnion(s *model.Shape, fn string) (*gowriter.Writer, error) {
	if len(s.Members) == 0 {
		return nil, errors.Newf(errors.ErrMalformedModel, "union %s has no variants", s.ID)
	}

	w := gowriter.New()
	w.Import(xmlstreamImport)
	w.Import(serdeImport)
	g.importTypes(w)
	sym := g.symbol(s.ID)

	w.OpenBlock("func %s(v %s, el *xmlstream.Element) error", fn, sym)
	w.Line("switch uv := v.(type) {")
	for _, m := range s.Members {
		target, err := g.model.Expect(m.Target)
		if err != nil {
			return nil, err
		}
		w.Linef("case *%sMember%s:", sym, exportName(m.Name))
		w.In()
		if err := g.emitVariant(w, m, target); err != nil {
			return nil, err
		}
		w.Out()
	}
	w.Line("default:")
	w.In()
	w.Linef("return &serde.UnknownUnionVariantError{Union: %q}", s.ID.Name())
	w.Out()
	w.Line("}")
	w.Line("return nil")
	w.CloseBlock()
	return w, nil
}

// emitVariant serializes one union variant from the wrapper's Value field.
// The union's own element is finished only after any fallible pre-encoding,
// so a failing variant leaves no partial output.
func (g *Generator) emitVariant(w *gowriter.Writer, m *model.Member, target *model.Shape) error {
	name := wireName(m)
	ns := memberNamespace(m, target)

	switch target.Kind {
	case model.KindString, model.KindEnum, model.KindBoolean, model.KindNumber, model.KindBlob:
		call, err := scalarWriteCall(target, "uv.Value")
		if err != nil {
			return err
		}
		w.Line("scope := el.Finish()")
		openScalarElement(w, name, ns)
		w.Linef("inner.%s", call)
		w.Line("inner.Close()")
		w.Line("scope.Close()")

	case model.KindTimestamp:
		formatConst, err := timestampFormatConst(m, target)
		if err != nil {
			return err
		}
		w.Import(timefmtImport)
		w.Linef("ts, err := timefmt.Encode(uv.Value, %s)", formatConst)
		w.OpenBlock("if err != nil")
		w.Line("return &serde.SerializationError{Err: err}")
		w.CloseBlock()
		w.Line("scope := el.Finish()")
		openScalarElement(w, name, ns)
		w.Line("inner.Text(ts)")
		w.Line("inner.Close()")
		w.Line("scope.Close()")

	case model.KindStructure:
		proc, err := g.shapeSerializer(target.ID)
		if err != nil {
			return err
		}
		w.Line("scope := el.Finish()")
		w.Linef("child := scope.StartElement(%q)", name)
		emitNamespaceAttr(w, "child", ns)
		w.OpenBlock("if err := %s(&uv.Value, child); err != nil", proc)
		w.Line("return err")
		w.CloseBlock()
		w.Line("scope.Close()")

	case model.KindUnion:
		proc, err := g.shapeSerializer(target.ID)
		if err != nil {
			return err
		}
		w.Line("scope := el.Finish()")
		w.Linef("child := scope.StartElement(%q)", name)
		emitNamespaceAttr(w, "child", ns)
		w.OpenBlock("if err := %s(uv.Value, child); err != nil", proc)
		w.Line("return err")
		w.CloseBlock()
		w.Line("scope.Close()")

	case model.KindList, model.KindSet:
		proc, err := g.shapeSerializer(target.ID)
		if err != nil {
			return err
		}
		w.Line("scope := el.Finish()")
		if m.Traits.Has(model.TraitXMLFlattened) {
			nsAttr, nsURI := nsArgs(ns)
			w.OpenBlock("if err := %s(uv.Value, scope, %q, %q, %q); err != nil", proc, name, nsAttr, nsURI)
			w.Line("return err")
			w.CloseBlock()
		} else {
			if target.ListMember == nil {
				return errors.Newf(errors.ErrMalformedModel, "collection %s has no member", target.ID)
			}
			itemAttr, itemURI := nsArgs(ownNamespace(target.ListMember))
			w.Linef("wrapper := scope.StartElement(%q)", name)
			emitNamespaceAttr(w, "wrapper", ns)
			w.Line("items := wrapper.Finish()")
			w.OpenBlock("if err := %s(uv.Value, items, %q, %q, %q); err != nil", proc, innerWireName(target.ListMember, "member"), itemAttr, itemURI)
			w.Line("return err")
			w.CloseBlock()
			w.Line("items.Close()")
		}
		w.Line("scope.Close()")

	case model.KindMap:
		proc, err := g.shapeSerializer(target.ID)
		if err != nil {
			return err
		}
		w.Line("scope := el.Finish()")
		if m.Traits.Has(model.TraitXMLFlattened) {
			nsAttr, nsURI := nsArgs(ns)
			w.OpenBlock("if err := %s(uv.Value, scope, %q, %q, %q); err != nil", proc, name, nsAttr, nsURI)
			w.Line("return err")
			w.CloseBlock()
		} else {
			entryName := "entry"
			if n, ok := m.Traits.String(model.TraitEntryName); ok && n != "" {
				entryName = n
			}
			w.Linef("wrapper := scope.StartElement(%q)", name)
			emitNamespaceAttr(w, "wrapper", ns)
			w.Line("entries := wrapper.Finish()")
			w.OpenBlock("if err := %s(uv.Value, entries, %q, %q, %q); err != nil", proc, entryName, "", "")
			w.Line("return err")
			w.CloseBlock()
			w.Line("entries.Close()")
		}
		w.Line("scope.Close()")

	default:
		return errors.Newf(errors.ErrUnsupportedKind,
			"no serialization rule for union variant %s targeting kind %s", m.Name, target.Kind)
	}
	return nil
}

func openScalarElement(w *gowriter.Writer, name string, ns *model.Namespace) {
	if ns == nil {
		w.Linef("inner := scope.StartElement(%q).Finish()", name)
		return
	}
	w.Linef("elem := scope.StartElement(%q)", name)
	emitNamespaceAttr(w, "elem", ns)
	w.Line("inner := elem.Finish()")
}
