package reachwalk

import (
	"testing"

	"github.com/protoforge/queryxml/errors"
	"github.com/protoforge/queryxml/model"
)

func buildModel(t *testing.T, shapes ...*model.Shape) *model.Model {
	t.Helper()
	m, err := model.New(shapes...)
	if err != nil {
		t.Fatalf("model.New() error = %v", err)
	}
	return m
}

func TestReachableHandlesCycles(t *testing.T) {
	m := buildModel(t,
		&model.Shape{ID: "example#Node", Kind: model.KindStructure, Members: []*model.Member{
			{Name: "Name", Target: "example#String"},
			{Name: "Next", Target: "example#Node"},
		}},
		&model.Shape{ID: "example#String", Kind: model.KindString},
	)

	set, err := Reachable(m, "example#Node")
	if err != nil {
		t.Fatalf("Reachable() error = %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("Reachable() = %v, want 2 shapes", set)
	}
	if _, ok := set["example#Node"]; !ok {
		t.Fatalf("Reachable() missing root")
	}
}

func TestReachableUnresolvedTarget(t *testing.T) {
	m := buildModel(t,
		&model.Shape{ID: "example#Input", Kind: model.KindStructure, Members: []*model.Member{
			{Name: "Gone", Target: "example#Missing"},
		}},
	)

	_, err := Reachable(m, "example#Input")
	if err == nil {
		t.Fatalf("Reachable() expected unresolved target error")
	}
	code, ok := errors.CodeOf(err)
	if !ok || code != errors.ErrUnresolvedTarget {
		t.Fatalf("CodeOf() = %q %v, want %q", code, ok, errors.ErrUnresolvedTarget)
	}
}

func TestRequiresValidation(t *testing.T) {
	tests := []struct {
		name   string
		shapes []*model.Shape
		root   model.ShapeID
		want   bool
	}{
		{
			name: "plain strings and numbers",
			shapes: []*model.Shape{
				{ID: "example#Input", Kind: model.KindStructure, Members: []*model.Member{
					{Name: "Name", Target: "example#String"},
					{Name: "Count", Target: "example#Integer"},
				}},
				{ID: "example#String", Kind: model.KindString},
				{ID: "example#Integer", Kind: model.KindNumber},
			},
			root: "example#Input",
			want: false,
		},
		{
			name: "constrained list reached through a member",
			shapes: []*model.Shape{
				{ID: "example#Input", Kind: model.KindStructure, Members: []*model.Member{
					{Name: "Tags", Target: "example#TagList"},
				}},
				{
					ID: "example#TagList", Kind: model.KindList,
					Traits:     model.Traits{model.TraitLength: "1..10"},
					ListMember: &model.Member{Name: "member", Target: "example#String"},
				},
				{ID: "example#String", Kind: model.KindString},
			},
			root: "example#Input",
			want: true,
		},
		{
			name: "set shape requires validation by kind",
			shapes: []*model.Shape{
				{ID: "example#Input", Kind: model.KindStructure, Members: []*model.Member{
					{Name: "Ids", Target: "example#IdSet"},
				}},
				{
					ID: "example#IdSet", Kind: model.KindSet,
					ListMember: &model.Member{Name: "member", Target: "example#String"},
				},
				{ID: "example#String", Kind: model.KindString},
			},
			root: "example#Input",
			want: true,
		},
		{
			name: "enum shape requires validation by kind",
			shapes: []*model.Shape{
				{ID: "example#Input", Kind: model.KindStructure, Members: []*model.Member{
					{Name: "Status", Target: "example#Status"},
				}},
				{ID: "example#Status", Kind: model.KindEnum, EnumValues: []string{"OK", "FAILED"}},
			},
			root: "example#Input",
			want: true,
		},
		{
			name: "constraint trait on a member",
			shapes: []*model.Shape{
				{ID: "example#Input", Kind: model.KindStructure, Members: []*model.Member{
					{Name: "Name", Target: "example#String", Traits: model.Traits{model.TraitRequired: nil}},
				}},
				{ID: "example#String", Kind: model.KindString},
			},
			root: "example#Input",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildModel(t, tt.shapes...)
			got, err := RequiresValidation(m, tt.root)
			if err != nil {
				t.Fatalf("RequiresValidation() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("RequiresValidation() = %v, want %v", got, tt.want)
			}
		})
	}
}
