package model

// TraitID keys a piece of protocol metadata attached to a shape or member.
type TraitID string

const (
	// TraitXMLName overrides the wire name of a shape or member.
	TraitXMLName TraitID = "xmlName"
	// TraitQueryName is the protocol-specific wire name override. It takes
	// strict precedence over TraitXMLName.
	TraitQueryName TraitID = "ec2QueryName"
	// TraitXMLNamespace declares a namespace URI with an optional prefix.
	TraitXMLNamespace TraitID = "xmlNamespace"
	// TraitXMLFlattened marks a collection or map member as wrapper-less.
	TraitXMLFlattened TraitID = "xmlFlattened"
	// TraitXMLAttribute places a member as an attribute on the owning element.
	TraitXMLAttribute TraitID = "xmlAttribute"
	// TraitEntryName overrides the per-entry element name of a map member.
	TraitEntryName TraitID = "entryName"
	// TraitTimestampFormat selects the wire representation of a timestamp member.
	TraitTimestampFormat TraitID = "timestampFormat"
	// TraitDefault carries a member's declared default value.
	TraitDefault TraitID = "default"

	// TraitRequired marks a member that must be present.
	TraitRequired TraitID = "required"
	// TraitLength constrains the length of a string, blob, collection or map.
	TraitLength TraitID = "length"
	// TraitRange constrains the numeric range of a number.
	TraitRange TraitID = "range"
	// TraitPattern constrains a string to a regular expression.
	TraitPattern TraitID = "pattern"
	// TraitUniqueItems constrains a list to distinct values.
	TraitUniqueItems TraitID = "uniqueItems"
	// TraitEnumConstraint constrains a string to a closed value set.
	TraitEnumConstraint TraitID = "enum"
)

// constraintTraits are the traits whose presence makes a shape or member
// subject to structural validation.
var constraintTraits = []TraitID{
	TraitRequired,
	TraitLength,
	TraitRange,
	TraitPattern,
	TraitUniqueItems,
	TraitEnumConstraint,
}

// Namespace is the value of TraitXMLNamespace.
type Namespace struct {
	URI    string
	Prefix string
}

// Traits is the keyed metadata set of a shape or member.
// Presence-only traits store a nil value.
type Traits map[TraitID]any

// Has reports whether the trait is present, regardless of its value.
func (t Traits) Has(id TraitID) bool {
	_, ok := t[id]
	return ok
}

// String returns the trait's string value, if present and string-valued.
func (t Traits) String(id TraitID) (string, bool) {
	v, ok := t[id].(string)
	return v, ok
}

// Namespace returns the xmlNamespace trait value, if present.
func (t Traits) Namespace() (Namespace, bool) {
	v, ok := t[TraitXMLNamespace].(Namespace)
	return v, ok
}

// Default returns the declared default value, if any.
func (t Traits) Default() (any, bool) {
	v, ok := t[TraitDefault]
	return v, ok
}

// HasConstraint reports whether any constraint trait is attached.
func (t Traits) HasConstraint() bool {
	for _, id := range constraintTraits {
		if t.Has(id) {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of the trait set.
func (t Traits) Clone() Traits {
	if t == nil {
		return nil
	}
	out := make(Traits, len(t))
	for id, v := range t {
		out[id] = v
	}
	return out
}
