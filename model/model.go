// Package model holds the immutable shape graph the generation pipeline
// consumes: shapes addressed by stable identity, trait-annotated members and
// the operations/services that group them. The graph is read-only once built;
// transformation passes produce rebuilt copies instead of mutating in place.
package model

import (
	"sort"

	"github.com/protoforge/queryxml/errors"
)

// Model is an arena of shapes addressed by ShapeID.
type Model struct {
	shapes map[ShapeID]*Shape
	order  []ShapeID
}

// New builds a model from the given shapes. Duplicate identifiers are a
// malformed-model defect.
func New(shapes ...*Shape) (*Model, error) {
	m := &Model{shapes: make(map[ShapeID]*Shape, len(shapes))}
	for _, s := range shapes {
		if s.ID.IsZero() {
			return nil, errors.New(errors.ErrMalformedModel, "shape with empty identifier")
		}
		if _, exists := m.shapes[s.ID]; exists {
			return nil, errors.Newf(errors.ErrMalformedModel, "duplicate shape %s", s.ID)
		}
		m.shapes[s.ID] = s
		m.order = append(m.order, s.ID)
	}
	sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })
	return m, nil
}

// Shape returns the shape for the identifier, if present.
func (m *Model) Shape(id ShapeID) (*Shape, bool) {
	s, ok := m.shapes[id]
	return s, ok
}

// Expect returns the shape for the identifier, or an unresolved-target defect.
func (m *Model) Expect(id ShapeID) (*Shape, error) {
	s, ok := m.shapes[id]
	if !ok {
		return nil, errors.Newf(errors.ErrUnresolvedTarget, "unresolved shape %s", id)
	}
	return s, nil
}

// Shapes returns all shapes in deterministic identifier order.
func (m *Model) Shapes() []*Shape {
	out := make([]*Shape, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.shapes[id])
	}
	return out
}

// Services returns all service shapes in deterministic order.
func (m *Model) Services() []*Shape {
	var out []*Shape
	for _, s := range m.Shapes() {
		if s.Kind == KindService {
			out = append(out, s)
		}
	}
	return out
}

// ServiceOperations resolves the operations of a service in deterministic
// declared order.
func (m *Model) ServiceOperations(id ShapeID) ([]*Shape, error) {
	svc, err := m.Expect(id)
	if err != nil {
		return nil, err
	}
	if svc.Kind != KindService {
		return nil, errors.Newf(errors.ErrMalformedModel, "shape %s is a %s, not a service", id, svc.Kind)
	}
	out := make([]*Shape, 0, len(svc.Operations))
	for _, opID := range svc.Operations {
		op, err := m.Expect(opID)
		if err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, nil
}

// Rebuild returns a model where the given shapes replace their originals and
// every other shape is shared with the receiver. An empty replacement set
// returns the receiver unchanged.
func (m *Model) Rebuild(replacements map[ShapeID]*Shape) *Model {
	if len(replacements) == 0 {
		return m
	}
	out := &Model{
		shapes: make(map[ShapeID]*Shape, len(m.shapes)),
		order:  m.order,
	}
	for id, s := range m.shapes {
		if r, ok := replacements[id]; ok {
			out.shapes[id] = r
			continue
		}
		out.shapes[id] = s
	}
	return out
}
