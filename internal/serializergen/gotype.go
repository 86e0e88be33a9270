package serializergen

import (
	"fmt"
	"strconv"

	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/internal/gowriter"
	"github.com/protoforge/queryxml/model"
	"github.com/protoforge/queryxml/wire/timefmt"
)

// encoderMethod maps a number format to its xmlstream scope method.
func encoderMethod(f model.NumberFormat) string {
	switch f {
	case model.FormatByte:
		return "Byte"
	case model.FormatShort:
		return "Short"
	case model.FormatLong:
		return "Long"
	case model.FormatFloat:
		return "Float"
	case model.FormatDouble:
		return "Double"
	default:
		return "Integer"
	}
}

// goNumberType maps a number format to its Go value type.
func goNumberType(f model.NumberFormat) string {
	switch f {
	case model.FormatByte:
		return "int8"
	case model.FormatShort:
		return "int16"
	case model.FormatLong:
		return "int64"
	case model.FormatFloat:
		return "float32"
	case model.FormatDouble:
		return "float64"
	default:
		return "int32"
	}
}

// goElemType returns the Go type of one element of a collection or map value
// for the given target shape, recording any imports the type needs.
func (g *Generator) goElemType(target *model.Shape, w *gowriter.Writer) (string, error) {
	switch target.Kind {
	case model.KindString:
		return "string", nil
	case model.KindBoolean:
		return "bool", nil
	case model.KindNumber:
		return goNumberType(target.Number), nil
	case model.KindBlob:
		return "[]byte", nil
	case model.KindTimestamp:
		w.Import("time")
		return "time.Time", nil
	case model.KindEnum, model.KindUnion:
		g.importTypes(w)
		return g.symbol(target.ID), nil
	case model.KindStructure:
		g.importTypes(w)
		return g.symbol(target.ID), nil
	case model.KindList, model.KindSet:
		if target.ListMember == nil {
			return "", errors.Newf(errors.ErrMalformedModel, "collection %s has no member", target.ID)
		}
		item, err := g.model.Expect(target.ListMember.Target)
		if err != nil {
			return "", err
		}
		inner, err := g.goElemType(item, w)
		if err != nil {
			return "", err
		}
		return "[]" + inner, nil
	case model.KindMap:
		if target.Value == nil {
			return "", errors.Newf(errors.ErrMalformedModel, "map %s has no value member", target.ID)
		}
		value, err := g.model.Expect(target.Value.Target)
		if err != nil {
			return "", err
		}
		inner, err := g.goElemType(value, w)
		if err != nil {
			return "", err
		}
		return "map[string]" + inner, nil
	default:
		return "", errors.Newf(errors.ErrUnsupportedKind,
			"no value type for %s shape %s", target.Kind, target.ID)
	}
}

// scalarWriteCall returns the scope method call writing the scalar value
// expression as element text.
func scalarWriteCall(target *model.Shape, valueExpr string) (string, error) {
	switch target.Kind {
	case model.KindString:
		return fmt.Sprintf("Text(%s)", valueExpr), nil
	case model.KindEnum:
		return fmt.Sprintf("Text(string(%s))", valueExpr), nil
	case model.KindBoolean:
		return fmt.Sprintf("Boolean(%s)", valueExpr), nil
	case model.KindNumber:
		return fmt.Sprintf("%s(%s)", encoderMethod(target.Number), valueExpr), nil
	case model.KindBlob:
		return fmt.Sprintf("Base64(%s)", valueExpr), nil
	default:
		return "", errors.Newf(errors.ErrUnsupportedKind,
			"kind %s is not a text-encodable scalar", target.Kind)
	}
}

// attrFormatExpr returns the Go expression rendering a scalar value expression
// as an attribute string.
func attrFormatExpr(target *model.Shape, valueExpr string, w *gowriter.Writer) (string, error) {
	switch target.Kind {
	case model.KindString:
		return valueExpr, nil
	case model.KindEnum:
		return fmt.Sprintf("string(%s)", valueExpr), nil
	case model.KindBoolean:
		w.Import("strconv")
		return fmt.Sprintf("strconv.FormatBool(%s)", valueExpr), nil
	case model.KindNumber:
		w.Import("strconv")
		switch target.Number {
		case model.FormatFloat:
			return fmt.Sprintf("strconv.FormatFloat(float64(%s), 'g', -1, 32)", valueExpr), nil
		case model.FormatDouble:
			return fmt.Sprintf("strconv.FormatFloat(%s, 'g', -1, 64)", valueExpr), nil
		default:
			return fmt.Sprintf("strconv.FormatInt(int64(%s), 10)", valueExpr), nil
		}
	case model.KindBlob:
		w.Import("encoding/base64")
		return fmt.Sprintf("base64.StdEncoding.EncodeToString(%s)", valueExpr), nil
	default:
		return "", errors.Newf(errors.ErrMalformedModel,
			"attribute member targets %s shape %s; attributes must be scalar", target.Kind, target.ID)
	}
}

// defaultLiteral renders a declared default value as a Go literal comparable
// against the member's field.
func defaultLiteral(target *model.Shape, value any) (string, error) {
	switch target.Kind {
	case model.KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return "", errors.Newf(errors.ErrMalformedModel,
				"default for boolean shape %s is %T", target.ID, value)
		}
		return strconv.FormatBool(b), nil
	case model.KindNumber:
		switch v := value.(type) {
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		default:
			return "", errors.Newf(errors.ErrMalformedModel,
				"default for number shape %s is %T", target.ID, value)
		}
	default:
		return "", errors.Newf(errors.ErrMalformedModel,
			"default elision applies to boolean and number members, not %s", target.Kind)
	}
}

var timefmtConsts = map[timefmt.Format]string{
	timefmt.FormatDateTime:     "timefmt.FormatDateTime",
	timefmt.FormatHTTPDate:     "timefmt.FormatHTTPDate",
	timefmt.FormatEpochSeconds: "timefmt.FormatEpochSeconds",
}

// timestampFormatConst resolves the per-member timestamp format, falling back
// to the target shape's trait and then the protocol default.
func timestampFormatConst(m *model.Member, target *model.Shape) (string, error) {
	name, ok := m.Traits.String(model.TraitTimestampFormat)
	if !ok {
		name, ok = target.Traits.String(model.TraitTimestampFormat)
	}
	if !ok {
		return timefmtConsts[timefmt.FormatDateTime], nil
	}
	f, err := timefmt.Parse(name)
	if err != nil {
		return "", errors.Newf(errors.ErrMalformedModel,
			"member %s: %v", m.Name, err)
	}
	return timefmtConsts[f], nil
}
