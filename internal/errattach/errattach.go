// Package errattach implements the model transform that attaches the implicit
// validation error contract to operations whose input graph can fail
// structural constraint checking. The pass is a pure function of
// (model, predicate): untouched shapes pass through by identity, qualifying
// operations are rebuilt with the error appended.
package errattach

import (
	"github.com/protoforge/queryxml/internal/reachwalk"
	"github.com/protoforge/queryxml/model"
)

// ValidationException is the designated validation-error identifier attached
// to qualifying operations.
const ValidationException model.ShapeID = "smithy.framework#ValidationException"

// KnownServices is the fixed allow-list of externally-owned services whose
// models the generator cannot edit at the source. Operations of these
// services receive the validation error contract unconditionally of the
// per-run feature flag.
var KnownServices = []model.ShapeID{
	"com.amazonaws.ec2#AmazonEC2",
}

// Predicate selects the services a pass applies to.
type Predicate func(service *model.Shape) bool

// AllowList matches services whose identifier is in the given set.
func AllowList(ids ...model.ShapeID) Predicate {
	set := make(map[model.ShapeID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(svc *model.Shape) bool {
		_, ok := set[svc.ID]
		return ok
	}
}

// Flag matches the single service being generated for when the feature flag
// is enabled.
func Flag(target model.ShapeID, enabled bool) Predicate {
	return func(svc *model.Shape) bool {
		return enabled && svc.ID == target
	}
}

// Attach returns a model where every operation of a matched service whose
// input requires validation declares ValidationException. The pass is
// idempotent (an operation already declaring the error is untouched) and
// monotone (no error is ever removed), so sequential applications with
// different predicates commute.
func Attach(m *model.Model, pred Predicate) (*model.Model, error) {
	replacements := make(map[model.ShapeID]*model.Shape)
	for _, svc := range m.Services() {
		if !pred(svc) {
			continue
		}
		ops, err := m.ServiceOperations(svc.ID)
		if err != nil {
			return nil, err
		}
		for _, op := range ops {
			if op.HasError(ValidationException) {
				continue
			}
			if op.Input.IsZero() {
				continue
			}
			required, err := reachwalk.RequiresValidation(m, op.Input)
			if err != nil {
				return nil, err
			}
			if !required {
				continue
			}
			rebuilt := op.Clone()
			rebuilt.Errors = append(rebuilt.Errors, ValidationException)
			replacements[op.ID] = rebuilt
		}
	}
	return m.Rebuild(replacements), nil
}
