// Package ident implements the row identifier policies of a store: sequential
// integers and UUID v7 strings. A store picks one policy at construction and
// keeps it for its lifetime; the two are not interchangeable.
package ident

import (
	"fmt"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Policy assigns and compares row identifiers.
type Policy interface {
	// Name returns the configuration name of the policy.
	Name() string

	// Normalize validates a caller-supplied id and returns its canonical form.
	// Returns an error wrapping types.ErrInvalidArgument for the wrong type.
	Normalize(id any) (any, error)

	// Parse converts textual input (CLI arguments) to a canonical id.
	Parse(s string) (any, error)

	// Next returns a fresh identifier that no row in rows carries.
	Next(rows []types.Row) (any, error)

	// Match reports whether a stored id value equals the canonical id.
	Match(stored any, id any) bool
}

// New returns the policy registered under name.
func New(name string) (Policy, error) {
	switch name {
	case "", types.IDPolicySequence:
		return Sequence{}, nil
	case types.IDPolicyUUID:
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrIDPolicyUnknown, name)
	}
}

// Find returns the index of the first row whose id matches id, or -1.
func Find(p Policy, rows []types.Row, id any) int {
	for i, row := range rows {
		stored, ok := row.ID()
		if ok && p.Match(stored, id) {
			return i
		}
	}
	return -1
}
