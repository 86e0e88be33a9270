package model

// Member is a named, trait-annotated edge from a composite shape to a target
// shape. A member belongs to exactly one containing shape.
type Member struct {
	Name   string
	Target ShapeID
	Traits Traits
}

// Clone returns a copy with its own trait set.
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	out := *m
	out.Traits = m.Traits.Clone()
	return &out
}

// Shape is a node in the shape graph. Which fields are populated depends on
// Kind: Members for structures and unions, ListMember for lists and sets,
// Key and Value for maps, EnumValues for enums, Input/Output/Errors for
// operations, Operations for services.
type Shape struct {
	ID     ShapeID
	Kind   ShapeKind
	Number NumberFormat
	Traits Traits

	Members    []*Member
	ListMember *Member
	Key        *Member
	Value      *Member
	EnumValues []string

	Input  ShapeID
	Output ShapeID
	Errors []ShapeID

	Operations []ShapeID
	Version    string
}

// Member returns the named member of a structure or union, or nil.
func (s *Shape) Member(name string) *Member {
	for _, m := range s.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// HasError reports whether the operation already declares the error shape.
func (s *Shape) HasError(id ShapeID) bool {
	for _, e := range s.Errors {
		if e == id {
			return true
		}
	}
	return false
}

// DataTargets returns the member targets a value of this shape can contain.
// Operation and service references are not data edges.
func (s *Shape) DataTargets() []ShapeID {
	switch s.Kind {
	case KindStructure, KindUnion:
		out := make([]ShapeID, 0, len(s.Members))
		for _, m := range s.Members {
			out = append(out, m.Target)
		}
		return out
	case KindList, KindSet:
		if s.ListMember != nil {
			return []ShapeID{s.ListMember.Target}
		}
	case KindMap:
		var out []ShapeID
		if s.Key != nil {
			out = append(out, s.Key.Target)
		}
		if s.Value != nil {
			out = append(out, s.Value.Target)
		}
		return out
	}
	return nil
}

// Clone returns a copy of the shape that shares no mutable state with the
// original. Member targets and operation references are copied by value.
func (s *Shape) Clone() *Shape {
	if s == nil {
		return nil
	}
	out := *s
	out.Traits = s.Traits.Clone()
	if s.Members != nil {
		out.Members = make([]*Member, len(s.Members))
		for i, m := range s.Members {
			out.Members[i] = m.Clone()
		}
	}
	out.ListMember = s.ListMember.Clone()
	out.Key = s.Key.Clone()
	out.Value = s.Value.Clone()
	out.EnumValues = append([]string(nil), s.EnumValues...)
	out.Errors = append([]ShapeID(nil), s.Errors...)
	out.Operations = append([]ShapeID(nil), s.Operations...)
	return &out
}
