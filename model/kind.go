package model

// ShapeKind enumerates every shape kind the pipeline understands.
// Dispatch sites switch over this set exhaustively; an unlisted kind is a
// generation-time defect, never a silent fallback.
type ShapeKind uint8

const (
	KindStructure ShapeKind = iota + 1
	KindUnion
	KindList
	KindSet
	KindMap
	KindEnum
	KindBoolean
	KindNumber
	KindString
	KindBlob
	KindTimestamp
	KindOperation
	KindService
)

var kindNames = map[ShapeKind]string{
	KindStructure: "structure",
	KindUnion:     "union",
	KindList:      "list",
	KindSet:       "set",
	KindMap:       "map",
	KindEnum:      "enum",
	KindBoolean:   "boolean",
	KindNumber:    "number",
	KindString:    "string",
	KindBlob:      "blob",
	KindTimestamp: "timestamp",
	KindOperation: "operation",
	KindService:   "service",
}

// String returns the lower-case kind name.
func (k ShapeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsScalar reports whether the kind serializes as raw element text.
func (k ShapeKind) IsScalar() bool {
	switch k {
	case KindEnum, KindBoolean, KindNumber, KindString, KindBlob, KindTimestamp:
		return true
	default:
		return false
	}
}

// NumberFormat selects the primitive encoder for a Number shape.
type NumberFormat uint8

const (
	FormatInteger NumberFormat = iota
	FormatByte
	FormatShort
	FormatLong
	FormatFloat
	FormatDouble
)

var numberNames = map[NumberFormat]string{
	FormatInteger: "integer",
	FormatByte:    "byte",
	FormatShort:   "short",
	FormatLong:    "long",
	FormatFloat:   "float",
	FormatDouble:  "double",
}

// String returns the lower-case format name.
func (f NumberFormat) String() string {
	if name, ok := numberNames[f]; ok {
		return name
	}
	return "unknown"
}
