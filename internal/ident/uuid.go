package ident

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// UUID assigns UUID v7 strings. Ids are opaque: any non-empty string is a
// valid lookup key, so rows written with other string ids stay addressable.
type UUID struct{}

// Name implements Policy.
func (UUID) Name() string { return types.IDPolicyUUID }

// Normalize implements Policy.
func (UUID) Normalize(id any) (any, error) {
	switch v := id.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%w: id must not be empty", types.ErrInvalidArgument)
		}
		return v, nil
	case uuid.UUID:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("%w: id %v (%T) is not a string", types.ErrInvalidArgument, id, id)
	}
}

// Parse implements Policy.
func (p UUID) Parse(s string) (any, error) {
	return p.Normalize(s)
}

// Next implements Policy. A generated id that collides with an existing row
// is drawn again.
func (p UUID) Next(rows []types.Row) (any, error) {
	for {
		id := newUUID()
		if Find(p, rows, id) < 0 {
			return id, nil
		}
	}
}

// Match implements Policy.
func (UUID) Match(stored any, id any) bool {
	s, ok := stored.(string)
	return ok && s == id
}

// newUUID generates a UUID v7, falling back to v4 if v7 generation fails.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
