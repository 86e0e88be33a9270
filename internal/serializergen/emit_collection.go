package serializergen

import (
	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/internal/gowriter"
	"github.com/protoforge/queryxml/model"
)

// emitParamNamespace repeats the caller-supplied namespace declaration on the
// still-open item or entry element. An empty nsAttr means the referencing
// member carried no declaration of its own.
func emitParamNamespace(w *gowriter.Writer, elemVar string) {
	w.OpenBlock(`if nsAttr != ""`)
	w.Linef("%s.Attr(nsAttr, nsURI)", elemVar)
	w.CloseBlock()
}

// emitCollection generates the procedure for a list or set shape. The item
// element name is a parameter: flattened call sites pass the referencing
// member's wire name and the parent scope, wrapped call sites pass the
// configured item name and the wrapper scope. The namespace pair is repeated
// on every item element, so flattened members with their own declaration keep
// it on each sibling.
func (g *Generator) emitCollection(s *model.Shape, fn string) (*gowriter.Writer, error) {
	if s.ListMember == nil {
		return nil, errors.Newf(errors.ErrMalformedModel, "collection %s has no member", s.ID)
	}
	item, err := g.model.Expect(s.ListMember.Target)
	if err != nil {
		return nil, err
	}

	w := gowriter.New()
	w.Import(xmlstreamImport)
	elemType, err := g.goElemType(item, w)
	if err != nil {
		return nil, err
	}

	w.OpenBlock("func %s(v []%s, scope *xmlstream.Scope, itemName, nsAttr, nsURI string) error", fn, elemType)
	w.OpenBlock("for i := range v")

	switch item.Kind {
	case model.KindString, model.KindEnum, model.KindBoolean, model.KindNumber, model.KindBlob:
		call, err := scalarWriteCall(item, "v[i]")
		if err != nil {
			return nil, err
		}
		w.Line("item := scope.StartElement(itemName)")
		emitParamNamespace(w, "item")
		w.Line("inner := item.Finish()")
		w.Linef("inner.%s", call)
		w.Line("inner.Close()")

	case model.KindTimestamp:
		formatConst, err := timestampFormatConst(s.ListMember, item)
		if err != nil {
			return nil, err
		}
		w.Import(timefmtImport)
		w.Import(serdeImport)
		w.Linef("ts, err := timefmt.Encode(v[i], %s)", formatConst)
		w.OpenBlock("if err != nil")
		w.Line("return &serde.SerializationError{Err: err}")
		w.CloseBlock()
		w.Line("item := scope.StartElement(itemName)")
		emitParamNamespace(w, "item")
		w.Line("inner := item.Finish()")
		w.Line("inner.Text(ts)")
		w.Line("inner.Close()")

	case model.KindStructure:
		proc, err := g.shapeSerializer(item.ID)
		if err != nil {
			return nil, err
		}
		w.Line("item := scope.StartElement(itemName)")
		emitParamNamespace(w, "item")
		w.OpenBlock("if err := %s(&v[i], item); err != nil", proc)
		w.Line("return err")
		w.CloseBlock()

	case model.KindUnion:
		proc, err := g.shapeSerializer(item.ID)
		if err != nil {
			return nil, err
		}
		w.Line("item := scope.StartElement(itemName)")
		emitParamNamespace(w, "item")
		w.OpenBlock("if err := %s(v[i], item); err != nil", proc)
		w.Line("return err")
		w.CloseBlock()

	case model.KindList, model.KindSet:
		if item.ListMember == nil {
			return nil, errors.Newf(errors.ErrMalformedModel, "collection %s has no member", item.ID)
		}
		proc, err := g.shapeSerializer(item.ID)
		if err != nil {
			return nil, err
		}
		innerName := innerWireName(item.ListMember, "member")
		innerAttr, innerURI := nsArgs(ownNamespace(item.ListMember))
		w.Line("item := scope.StartElement(itemName)")
		emitParamNamespace(w, "item")
		w.Line("items := item.Finish()")
		w.OpenBlock("if err := %s(v[i], items, %q, %q, %q); err != nil", proc, innerName, innerAttr, innerURI)
		w.Line("return err")
		w.CloseBlock()
		w.Line("items.Close()")

	case model.KindMap:
		proc, err := g.shapeSerializer(item.ID)
		if err != nil {
			return nil, err
		}
		w.Line("item := scope.StartElement(itemName)")
		emitParamNamespace(w, "item")
		w.Line("entries := item.Finish()")
		w.OpenBlock("if err := %s(v[i], entries, %q, %q, %q); err != nil", proc, "entry", "", "")
		w.Line("return err")
		w.CloseBlock()
		w.Line("entries.Close()")

	default:
		return nil, errors.Newf(errors.ErrUnsupportedKind,
			"no serialization rule for collection item kind %s in %s", item.Kind, s.ID)
	}

	w.CloseBlock()
	w.Line("return nil")
	w.CloseBlock()
	return w, nil
}

// emitMap generates the procedure for a map shape. The entry element name and
// namespace pair have the same flattened/wrapped duality as collections; key
// and value element names are resolved from the map's own members. Entries
// are written in sorted key order so output is reproducible.
func (g *Generator) emitMap(s *model.Shape, fn string) (*gowriter.Writer, error) {
	if s.Key == nil || s.Value == nil {
		return nil, errors.Newf(errors.ErrMalformedModel, "map %s lacks key or value member", s.ID)
	}
	key, err := g.model.Expect(s.Key.Target)
	if err != nil {
		return nil, err
	}
	if key.Kind != model.KindString && key.Kind != model.KindEnum {
		return nil, errors.Newf(errors.ErrMalformedModel,
			"map %s key is %s; keys must be string-valued", s.ID, key.Kind)
	}
	value, err := g.model.Expect(s.Value.Target)
	if err != nil {
		return nil, err
	}

	w := gowriter.New()
	w.Import(xmlstreamImport)
	valueType, err := g.goElemType(value, w)
	if err != nil {
		return nil, err
	}
	keyName := innerWireName(s.Key, "key")
	valueName := innerWireName(s.Value, "value")

	w.Import("sort")
	w.OpenBlock("func %s(v map[string]%s, scope *xmlstream.Scope, entryName, nsAttr, nsURI string) error", fn, valueType)
	w.Line("keys := make([]string, 0, len(v))")
	w.OpenBlock("for key := range v")
	w.Line("keys = append(keys, key)")
	w.CloseBlock()
	w.Line("sort.Strings(keys)")
	w.OpenBlock("for _, key := range keys")
	w.Line("el := scope.StartElement(entryName)")
	emitParamNamespace(w, "el")
	w.Line("entry := el.Finish()")
	w.Linef("kel := entry.StartElement(%q).Finish()", keyName)
	w.Line("kel.Text(key)")
	w.Line("kel.Close()")

	switch value.Kind {
	case model.KindString, model.KindEnum, model.KindBoolean, model.KindNumber, model.KindBlob:
		call, err := scalarWriteCall(value, "v[key]")
		if err != nil {
			return nil, err
		}
		w.Linef("vel := entry.StartElement(%q).Finish()", valueName)
		w.Linef("vel.%s", call)
		w.Line("vel.Close()")

	case model.KindTimestamp:
		formatConst, err := timestampFormatConst(s.Value, value)
		if err != nil {
			return nil, err
		}
		w.Import(timefmtImport)
		w.Import(serdeImport)
		w.Linef("ts, err := timefmt.Encode(v[key], %s)", formatConst)
		w.OpenBlock("if err != nil")
		w.Line("return &serde.SerializationError{Err: err}")
		w.CloseBlock()
		w.Linef("vel := entry.StartElement(%q).Finish()", valueName)
		w.Line("vel.Text(ts)")
		w.Line("vel.Close()")

	case model.KindStructure:
		proc, err := g.shapeSerializer(value.ID)
		if err != nil {
			return nil, err
		}
		w.Line("val := v[key]")
		w.Linef("vel := entry.StartElement(%q)", valueName)
		w.OpenBlock("if err := %s(&val, vel); err != nil", proc)
		w.Line("return err")
		w.CloseBlock()

	case model.KindUnion:
		proc, err := g.shapeSerializer(value.ID)
		if err != nil {
			return nil, err
		}
		w.Linef("vel := entry.StartElement(%q)", valueName)
		w.OpenBlock("if err := %s(v[key], vel); err != nil", proc)
		w.Line("return err")
		w.CloseBlock()

	case model.KindList, model.KindSet:
		if value.ListMember == nil {
			return nil, errors.Newf(errors.ErrMalformedModel, "collection %s has no member", value.ID)
		}
		proc, err := g.shapeSerializer(value.ID)
		if err != nil {
			return nil, err
		}
		innerName := innerWireName(value.ListMember, "member")
		innerAttr, innerURI := nsArgs(ownNamespace(value.ListMember))
		w.Linef("vel := entry.StartElement(%q).Finish()", valueName)
		w.OpenBlock("if err := %s(v[key], vel, %q, %q, %q); err != nil", proc, innerName, innerAttr, innerURI)
		w.Line("return err")
		w.CloseBlock()
		w.Line("vel.Close()")

	case model.KindMap:
		proc, err := g.shapeSerializer(value.ID)
		if err != nil {
			return nil, err
		}
		w.Linef("vel := entry.StartElement(%q).Finish()", valueName)
		w.OpenBlock("if err := %s(v[key], vel, %q, %q, %q); err != nil", proc, "entry", "", "")
		w.Line("return err")
		w.CloseBlock()
		w.Line("vel.Close()")

	default:
		return nil, errors.Newf(errors.ErrUnsupportedKind,
			"no serialization rule for map value kind %s in %s", value.Kind, s.ID)
	}

	w.Line("entry.Close()")
	w.CloseBlock()
	w.Line("return nil")
	w.CloseBlock()
	return w, nil
}
