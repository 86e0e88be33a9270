// Package modeljson loads a JSON shape document into the in-memory shape
// graph. The document is a flat "shapes" object keyed by shape identifier;
// each entry carries its type, members and traits. Member declaration order
// is preserved because it determines wire output order.
package modeljson

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/model"
)

type document struct {
	Shapes map[model.ShapeID]json.RawMessage `json:"shapes"`
}

type shapeDoc struct {
	Type       string                     `json:"type"`
	Members    json.RawMessage            `json:"members"`
	Member     *memberDoc                 `json:"member"`
	Key        *memberDoc                 `json:"key"`
	Value      *memberDoc                 `json:"value"`
	Input      *reference                 `json:"input"`
	Output     *reference                 `json:"output"`
	Errors     []reference                `json:"errors"`
	Operations []reference                `json:"operations"`
	Version    string                     `json:"version"`
	Traits     map[string]json.RawMessage `json:"traits"`
}

type memberDoc struct {
	Target model.ShapeID              `json:"target"`
	Traits map[string]json.RawMessage `json:"traits"`
}

type reference struct {
	Target model.ShapeID `json:"target"`
}

// kindsByType maps the document's type names to shape kinds. Number types
// share a kind and differ only in format.
var kindsByType = map[string]model.ShapeKind{
	"structure": model.KindStructure,
	"union":     model.KindUnion,
	"list":      model.KindList,
	"set":       model.KindSet,
	"map":       model.KindMap,
	"enum":      model.KindEnum,
	"boolean":   model.KindBoolean,
	"string":    model.KindString,
	"blob":      model.KindBlob,
	"timestamp": model.KindTimestamp,
	"operation": model.KindOperation,
	"service":   model.KindService,
}

var numberFormats = map[string]model.NumberFormat{
	"byte":    model.FormatByte,
	"short":   model.FormatShort,
	"integer": model.FormatInteger,
	"long":    model.FormatLong,
	"float":   model.FormatFloat,
	"double":  model.FormatDouble,
}

// LoadFile reads a JSON shape document from disk.
func LoadFile(path string) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load reads a JSON shape document.
func Load(r io.Reader) (*model.Model, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Newf(errors.ErrMalformedModel, "decode shape document: %v", err)
	}
	shapes := make([]*model.Shape, 0, len(doc.Shapes))
	for id, raw := range doc.Shapes {
		s, err := decodeShape(id, raw)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	return model.New(shapes...)
}

func decodeShape(id model.ShapeID, raw json.RawMessage) (*model.Shape, error) {
	var sd shapeDoc
	if err := json.Unmarshal(raw, &sd); err != nil {
		return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: %v", id, err)
	}

	s := &model.Shape{ID: id}
	if kind, ok := kindsByType[sd.Type]; ok {
		s.Kind = kind
	} else if format, ok := numberFormats[sd.Type]; ok {
		s.Kind = model.KindNumber
		s.Number = format
	} else {
		return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: unknown type %q", id, sd.Type)
	}

	traits, err := decodeTraits(id, sd.Traits)
	if err != nil {
		return nil, err
	}
	s.Traits = traits

	switch s.Kind {
	case model.KindStructure, model.KindUnion:
		if s.Members, err = decodeMembers(id, sd.Members); err != nil {
			return nil, err
		}
	case model.KindList, model.KindSet:
		if sd.Member == nil {
			return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: %s without member", id, sd.Type)
		}
		if s.ListMember, err = decodeMember(id, "member", sd.Member); err != nil {
			return nil, err
		}
	case model.KindMap:
		if sd.Key == nil || sd.Value == nil {
			return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: map without key or value", id)
		}
		if s.Key, err = decodeMember(id, "key", sd.Key); err != nil {
			return nil, err
		}
		if s.Value, err = decodeMember(id, "value", sd.Value); err != nil {
			return nil, err
		}
	case model.KindEnum:
		if s.EnumValues, err = decodeEnumValues(id, sd.Members); err != nil {
			return nil, err
		}
	case model.KindOperation:
		if sd.Input != nil {
			s.Input = sd.Input.Target
		}
		if sd.Output != nil {
			s.Output = sd.Output.Target
		}
		for _, e := range sd.Errors {
			s.Errors = append(s.Errors, e.Target)
		}
	case model.KindService:
		s.Version = sd.Version
		for _, op := range sd.Operations {
			s.Operations = append(s.Operations, op.Target)
		}
	}
	return s, nil
}

// decodeMembers walks the members object with a token decoder so declaration
// order survives the round trip.
func decodeMembers(id model.ShapeID, raw json.RawMessage) ([]*model.Member, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: members: %v", id, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: members is not an object", id)
	}
	var members []*model.Member
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: members: %v", id, err)
		}
		name := nameTok.(string)
		var md memberDoc
		if err := dec.Decode(&md); err != nil {
			return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: member %s: %v", id, name, err)
		}
		m, err := decodeMember(id, name, &md)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func decodeMember(id model.ShapeID, name string, md *memberDoc) (*model.Member, error) {
	if md.Target.IsZero() {
		return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: member %s has no target", id, name)
	}
	traits, err := decodeTraits(id, md.Traits)
	if err != nil {
		return nil, err
	}
	return &model.Member{Name: name, Target: md.Target, Traits: traits}, nil
}

// decodeEnumValues reads enum members, preferring an explicit enumValue trait
// over the member name.
func decodeEnumValues(id model.ShapeID, raw json.RawMessage) ([]string, error) {
	members, err := decodeMembers(id, raw)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(members))
	for _, m := range members {
		if v, ok := m.Traits.String("enumValue"); ok {
			values = append(values, v)
			continue
		}
		values = append(values, m.Name)
	}
	return values, nil
}

// decodeTraits converts document trait entries to the typed trait set.
// Trait keys are namespaced in the document; only the local name selects the
// conversion. Traits the pipeline never consults are kept with their raw
// decoded value.
func decodeTraits(id model.ShapeID, raw map[string]json.RawMessage) (model.Traits, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	traits := make(model.Traits, len(raw))
	for key, value := range raw {
		local := key
		if i := strings.IndexByte(key, '#'); i >= 0 {
			local = key[i+1:]
		}
		switch tid := model.TraitID(local); tid {
		case model.TraitXMLName, model.TraitQueryName, model.TraitEntryName,
			model.TraitTimestampFormat, model.TraitPattern:
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: trait %s: %v", id, key, err)
			}
			traits[tid] = s
		case model.TraitXMLNamespace:
			var ns struct {
				URI    string `json:"uri"`
				Prefix string `json:"prefix"`
			}
			if err := json.Unmarshal(value, &ns); err != nil {
				return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: trait %s: %v", id, key, err)
			}
			traits[tid] = model.Namespace{URI: ns.URI, Prefix: ns.Prefix}
		case model.TraitXMLFlattened, model.TraitXMLAttribute,
			model.TraitRequired, model.TraitUniqueItems:
			traits[tid] = nil
		default:
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return nil, errors.Newf(errors.ErrMalformedModel, "shape %s: trait %s: %v", id, key, err)
			}
			traits[tid] = v
		}
	}
	return traits, nil
}
