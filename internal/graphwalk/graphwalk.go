// Package graphwalk provides a generic guarded traversal over a directed
// graph of comparable keys. A node is visited at most once, so cyclic graphs
// terminate without special handling.
package graphwalk

import "fmt"

// MissingPolicy controls behavior when a referenced node is missing.
type MissingPolicy uint8

const (
	MissingPolicyIgnore MissingPolicy = iota
	MissingPolicyError
)

// MissingError reports a missing referenced node.
type MissingError[K comparable] struct {
	From K
	Key  K
}

// Error returns the error string.
func (e MissingError[K]) Error() string {
	return "missing node"
}

// Config configures a traversal.
type Config[K comparable] struct {
	Exists  func(K) bool
	Next    func(K) ([]K, error)
	Visit   func(K) error
	Starts  []K
	Missing MissingPolicy
}

// Traverse walks directed edges from Starts in pre-order, calling Visit once
// per reachable node, and reports the first visit or traversal error.
func Traverse[K comparable](cfg Config[K]) error {
	if cfg.Next == nil {
		return fmt.Errorf("graph traverse: next function is nil")
	}
	seen := make(map[K]struct{}, len(cfg.Starts))

	var zero K
	var visit func(key, from K, hasFrom bool) error
	visit = func(key, from K, hasFrom bool) error {
		if _, ok := seen[key]; ok {
			return nil
		}

		exists := true
		if cfg.Exists != nil {
			exists = cfg.Exists(key)
		}
		if !exists {
			if cfg.Missing == MissingPolicyIgnore {
				return nil
			}
			if !hasFrom {
				from = zero
			}
			return MissingError[K]{From: from, Key: key}
		}

		seen[key] = struct{}{}
		if cfg.Visit != nil {
			if err := cfg.Visit(key); err != nil {
				return err
			}
		}
		neighbors, err := cfg.Next(key)
		if err != nil {
			return err
		}
		for _, next := range neighbors {
			if err := visit(next, key, true); err != nil {
				return err
			}
		}
		return nil
	}

	for _, start := range cfg.Starts {
		if err := visit(start, zero, false); err != nil {
			return err
		}
	}

	return nil
}
