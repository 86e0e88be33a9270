// Package errors defines the typed generation-defect errors reported by the
// code-generation pipeline. A defect means the input model is malformed or
// uses a construct the generator does not cover; it aborts the whole run and
// is never retried.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a generation defect.
type Code string

const (
	// ErrMalformedModel indicates the shape graph violates a structural invariant.
	ErrMalformedModel Code = "model-malformed"
	// ErrUnresolvedTarget indicates a member or operation references a shape
	// missing from the model.
	ErrUnresolvedTarget Code = "model-unresolved-target"
	// ErrUnresolvedRootName indicates an operation output has serializable
	// members but no derivable root element name.
	ErrUnresolvedRootName Code = "gen-unresolved-root-name"
	// ErrUnsupportedKind indicates a shape kind with no serialization rule.
	ErrUnsupportedKind Code = "gen-unsupported-kind"
	// ErrUnimplementedHook indicates an intentionally unimplemented generator
	// hook was reached.
	ErrUnimplementedHook Code = "gen-unimplemented-hook"
	// ErrFormat indicates the assembled generated source failed formatting.
	ErrFormat Code = "gen-format"
)

// Generation describes a generation-time defect.
//
//nolint:errname // public API name uses pipeline domain term.
type Generation struct {
	Code    Code
	Message string
}

// New builds a generation defect with the given code and message.
func New(code Code, message string) *Generation {
	return &Generation{Code: code, Message: message}
}

// Newf builds a generation defect with a formatted message.
func Newf(code Code, format string, args ...any) *Generation {
	return &Generation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error formats the defect for display.
func (g *Generation) Error() string {
	if g == nil {
		return "generation <nil>"
	}
	return fmt.Sprintf("[%s] %s", g.Code, g.Message)
}

// CodeOf extracts the defect code from an error chain.
func CodeOf(err error) (Code, bool) {
	var g *Generation
	if errors.As(err, &g) {
		return g.Code, true
	}
	return "", false
}
