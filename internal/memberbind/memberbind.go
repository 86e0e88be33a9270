// Package memberbind splits a structure's body-bound members into attribute
// members and data members. Attribute members are applied to the owning
// element before it is finished; data members become child elements or text
// in declared order.
package memberbind

import "github.com/protoforge/queryxml/model"

// Bound is the classification of a structure's serializable members.
type Bound struct {
	Attributes []*model.Member
	Data       []*model.Member
}

// Classify partitions the payload members, preserving declared order within
// each partition.
func Classify(members []*model.Member) Bound {
	var b Bound
	for _, m := range members {
		if m.Traits.Has(model.TraitXMLAttribute) {
			b.Attributes = append(b.Attributes, m)
			continue
		}
		b.Data = append(b.Data, m)
	}
	return b
}

// Empty reports whether the structure has no serializable content at all.
func (b Bound) Empty() bool {
	return len(b.Attributes) == 0 && len(b.Data) == 0
}
