// Package serializergen emits, for each shape reachable from an operation
// output, a Go procedure that serializes an in-memory value into the wire
// format. Emission is pure with respect to the model and memoized by a
// generation cache keyed by shape identity, so a shape referenced from many
// call sites is compiled exactly once and invoked many times.
package serializergen

import (
	"sort"
	"sync"

	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/internal/gowriter"
	"github.com/protoforge/queryxml/internal/memberbind"
	"github.com/protoforge/queryxml/model"
)

const (
	xmlstreamImport = "github.com/protoforge/queryxml/wire/xmlstream"
	timefmtImport   = "github.com/protoforge/queryxml/wire/timefmt"
	serdeImport     = "github.com/protoforge/queryxml/wire/serde"
)

// Symbols maps a shape to the Go type expression of its in-memory value.
type Symbols func(model.ShapeID) string

// Options configures a Generator.
type Options struct {
	// Service provides the namespace fallback for operation roots.
	Service model.ShapeID
	// IgnoreDefaults elides boolean and number members equal to their
	// declared default.
	IgnoreDefaults bool
	// TypesImport is the import path of the generated value types package.
	TypesImport string
	// Symbols overrides value type naming. Defaults to "types.<Name>".
	Symbols Symbols
}

type procKey struct {
	shape  model.ShapeID
	suffix string
}

// Generator owns the process-wide generation cache for one run. The cache has
// insert-if-absent semantics under a mutex; a key is claimed before its body
// is emitted and published after, so concurrent operations converge on one
// procedure per shape and never observe a partially constructed entry.
type Generator struct {
	model *model.Model
	opts  Options

	mu    sync.Mutex
	names map[procKey]string
	done  map[procKey]*gowriter.Writer
}

// New returns a generator over the (already transformed) model.
func New(m *model.Model, opts Options) *Generator {
	if opts.Symbols == nil {
		opts.Symbols = func(id model.ShapeID) string {
			return "types." + exportName(id.Name())
		}
	}
	return &Generator{
		model: m,
		opts:  opts,
		names: make(map[procKey]string),
		done:  make(map[procKey]*gowriter.Writer),
	}
}

// claim reserves the cache key and returns its procedure name. The second
// result is false when another call site already owns the key.
func (g *Generator) claim(key procKey, name string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.names[key]; ok {
		return existing, false
	}
	g.names[key] = name
	return name, true
}

func (g *Generator) publish(key procKey, w *gowriter.Writer) {
	g.mu.Lock()
	g.done[key] = w
	g.mu.Unlock()
}

// shapeSerializer returns the procedure name for the shape, emitting it first
// if this is the shape's first call site.
func (g *Generator) shapeSerializer(id model.ShapeID) (string, error) {
	key := procKey{shape: id}
	name, first := g.claim(key, "serialize"+exportName(id.Name()))
	if !first {
		return name, nil
	}

	s, err := g.model.Expect(id)
	if err != nil {
		return "", err
	}
	var w *gowriter.Writer
	switch s.Kind {
	case model.KindStructure:
		w, err = g.emitStructure(s, name)
	case model.KindUnion:
		w, err = g.emitUnion(s, name)
	case model.KindList, model.KindSet:
		w, err = g.emitCollection(s, name)
	case model.KindMap:
		w, err = g.emitMap(s, name)
	case model.KindEnum, model.KindBoolean, model.KindNumber, model.KindString,
		model.KindBlob, model.KindTimestamp:
		return "", errors.Newf(errors.ErrUnsupportedKind,
			"scalar shape %s has no standalone serializer", id)
	case model.KindOperation, model.KindService:
		return "", errors.Newf(errors.ErrUnsupportedKind,
			"%s shape %s cannot be serialized as data", s.Kind, id)
	default:
		return "", errors.Newf(errors.ErrUnsupportedKind,
			"no serialization rule for shape %s of kind %s", id, s.Kind)
	}
	if err != nil {
		return "", err
	}
	g.publish(key, w)
	return name, nil
}

// OperationOutput generates the root entry point for an operation's output.
// It returns the procedure name, or generated=false when the output has no
// serializable members and the operation therefore has no body.
func (g *Generator) OperationOutput(opID model.ShapeID) (fn string, generated bool, err error) {
	op, err := g.model.Expect(opID)
	if err != nil {
		return "", false, err
	}
	if op.Kind != model.KindOperation {
		return "", false, errors.Newf(errors.ErrMalformedModel,
			"shape %s is a %s, not an operation", opID, op.Kind)
	}
	if op.Output.IsZero() {
		return "", false, nil
	}
	out, err := g.model.Expect(op.Output)
	if err != nil {
		return "", false, err
	}
	if out.Kind != model.KindStructure {
		return "", false, errors.Newf(errors.ErrMalformedModel,
			"operation %s output %s is a %s, not a structure", opID, out.ID, out.Kind)
	}
	if memberbind.Classify(out.Members).Empty() {
		return "", false, nil
	}

	rootName, err := g.rootWireName(out)
	if err != nil {
		return "", false, err
	}

	key := procKey{shape: opID, suffix: "Output"}
	name, first := g.claim(key, "serializeOp"+exportName(opID.Name())+"Output")
	if !first {
		return name, true, nil
	}

	inner, err := g.shapeSerializer(out.ID)
	if err != nil {
		return "", false, err
	}

	w := gowriter.New()
	w.Import("bytes")
	w.Import(xmlstreamImport)
	g.importTypes(w)
	w.OpenBlock("func %s(v %s) (string, error)", name, g.ptrSymbol(out.ID))
	w.Line("var buf bytes.Buffer")
	w.Line("w := xmlstream.NewWriter(&buf)")
	w.Linef("root := w.StartElement(%q)", rootName)
	if ns, ok := g.rootNamespace(out); ok {
		w.Linef("root.Attr(%q, %q)", namespaceAttr(ns), ns.URI)
	}
	w.OpenBlock("if err := %s(v, root); err != nil", inner)
	w.Line(`return "", err`)
	w.CloseBlock()
	w.Line("return buf.String(), nil")
	w.CloseBlock()
	g.publish(key, w)
	return name, true, nil
}

// rootWireName resolves the root element name of an operation output. A shape
// with serializable members but no derivable name is a model defect.
func (g *Generator) rootWireName(out *model.Shape) (string, error) {
	if name, ok := out.Traits.String(model.TraitXMLName); ok && name != "" {
		return name, nil
	}
	if name := out.ID.Name(); name != "" {
		return name, nil
	}
	return "", errors.Newf(errors.ErrUnresolvedRootName,
		"no root element name derivable for %s", out.ID)
}

// rootNamespace resolves the namespace declared on the operation root: the
// output shape's own trait, else the owning service's.
func (g *Generator) rootNamespace(out *model.Shape) (model.Namespace, bool) {
	if ns, ok := out.Traits.Namespace(); ok {
		return ns, true
	}
	if !g.opts.Service.IsZero() {
		if svc, ok := g.model.Shape(g.opts.Service); ok {
			if ns, ok := svc.Traits.Namespace(); ok {
				return ns, true
			}
		}
	}
	return model.Namespace{}, false
}

// ServerError is the serializer hook for protocol-level server errors.
// Error-shape serialization is not implemented; calling it is a defect.
func (g *Generator) ServerError(model.ShapeID) error {
	return errors.New(errors.ErrUnimplementedHook, "server error serializer is not implemented")
}

// Source assembles every generated procedure, in deterministic shape order,
// into one formatted file in the given package.
func (g *Generator) Source(pkg string) ([]byte, error) {
	g.mu.Lock()
	keys := make([]procKey, 0, len(g.done))
	for key := range g.done {
		keys = append(keys, key)
	}
	g.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].shape != keys[j].shape {
			return keys[i].shape < keys[j].shape
		}
		return keys[i].suffix < keys[j].suffix
	})

	snippets := make([]*gowriter.Writer, 0, len(keys))
	for _, key := range keys {
		snippets = append(snippets, g.done[key])
	}
	return gowriter.Assemble(pkg, snippets...)
}

func namespaceAttr(ns model.Namespace) string {
	if ns.Prefix == "" {
		return "xmlns"
	}
	return "xmlns:" + ns.Prefix
}
