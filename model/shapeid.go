package model

import "strings"

// ShapeID identifies a shape as "namespace#Name".
// Using a typed string prevents mixing shape identifiers with other strings.
type ShapeID string

// Namespace returns the namespace part of the identifier, or "" when absent.
func (id ShapeID) Namespace() string {
	if i := strings.IndexByte(string(id), '#'); i >= 0 {
		return string(id[:i])
	}
	return ""
}

// Name returns the local name part of the identifier.
func (id ShapeID) Name() string {
	if i := strings.IndexByte(string(id), '#'); i >= 0 {
		return string(id[i+1:])
	}
	return string(id)
}

// IsZero reports whether the identifier is empty.
func (id ShapeID) IsZero() bool {
	return id == ""
}
