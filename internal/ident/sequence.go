package ident

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Sequence assigns non-negative int64 ids: the largest integer id in the
// table plus one, or 0 for an empty table. Ids that are not integers (data
// written by other tools) are ignored when computing the maximum.
type Sequence struct{}

// Name implements Policy.
func (Sequence) Name() string { return types.IDPolicySequence }

// Normalize implements Policy. Any Go integer kind is accepted.
func (Sequence) Normalize(id any) (any, error) {
	n, ok := asInt64(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %v (%T) is not an integer", types.ErrInvalidArgument, id, id)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: id %d is negative", types.ErrInvalidArgument, n)
	}
	return n, nil
}

// Parse implements Policy.
func (p Sequence) Parse(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q is not an integer", types.ErrInvalidArgument, s)
	}
	return p.Normalize(n)
}

// Next implements Policy.
func (Sequence) Next(rows []types.Row) (any, error) {
	var highest int64 = -1
	for _, row := range rows {
		stored, ok := row.ID()
		if !ok {
			continue
		}
		n, ok := asInt64(stored)
		if !ok {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	if highest == math.MaxInt64 {
		return nil, fmt.Errorf("id sequence exhausted")
	}
	return highest + 1, nil
}

// Match implements Policy.
func (Sequence) Match(stored any, id any) bool {
	want, ok := id.(int64)
	if !ok {
		return false
	}
	got, ok := asInt64(stored)
	return ok && got == want
}

// asInt64 converts integer-valued numbers, including decoded json.Number and
// integral float64 values, to int64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt64(n)
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func uintToInt64(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}
