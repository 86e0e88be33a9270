// Package reachwalk computes the set of shapes transitively reachable from a
// root shape through data-member targets, and classifies whether that set can
// fail structural constraint checking. Both computations are pure reads of
// the model.
package reachwalk

import (
	goerrors "errors"
	"fmt"

	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/internal/graphwalk"
	"github.com/protoforge/queryxml/model"
)

// Reachable returns every shape reachable from root, root included. Cycles in
// the shape graph terminate; an unresolved member target is an
// unresolved-target defect.
func Reachable(m *model.Model, root model.ShapeID) (map[model.ShapeID]struct{}, error) {
	set := make(map[model.ShapeID]struct{})
	err := graphwalk.Traverse(graphwalk.Config[model.ShapeID]{
		Starts:  []model.ShapeID{root},
		Missing: graphwalk.MissingPolicyError,
		Exists: func(id model.ShapeID) bool {
			_, ok := m.Shape(id)
			return ok
		},
		Next: func(id model.ShapeID) ([]model.ShapeID, error) {
			s, err := m.Expect(id)
			if err != nil {
				return nil, err
			}
			return s.DataTargets(), nil
		},
		Visit: func(id model.ShapeID) error {
			set[id] = struct{}{}
			return nil
		},
	})
	if err != nil {
		var missing graphwalk.MissingError[model.ShapeID]
		if goerrors.As(err, &missing) {
			return nil, errors.Newf(errors.ErrUnresolvedTarget,
				"shape %s references unresolved shape %s", missing.From, missing.Key)
		}
		return nil, fmt.Errorf("reach %s: %w", root, err)
	}
	return set, nil
}

// RequiresValidation reports whether the graph reachable from root contains a
// set shape, an enum shape, or any shape or member carrying a constraint
// trait. Operations whose input satisfies this predicate need the implicit
// validation error contract.
func RequiresValidation(m *model.Model, root model.ShapeID) (bool, error) {
	set, err := Reachable(m, root)
	if err != nil {
		return false, err
	}
	for id := range set {
		s, err := m.Expect(id)
		if err != nil {
			return false, err
		}
		if constrained(s) {
			return true, nil
		}
	}
	return false, nil
}

func constrained(s *model.Shape) bool {
	if s.Kind == model.KindSet || s.Kind == model.KindEnum {
		return true
	}
	if s.Traits.HasConstraint() {
		return true
	}
	for _, m := range s.Members {
		if m.Traits.HasConstraint() {
			return true
		}
	}
	if s.ListMember != nil && s.ListMember.Traits.HasConstraint() {
		return true
	}
	if s.Key != nil && s.Key.Traits.HasConstraint() {
		return true
	}
	if s.Value != nil && s.Value.Traits.HasConstraint() {
		return true
	}
	return false
}
