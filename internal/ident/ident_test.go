package ident

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func TestNew(t *testing.T) {
	p, err := New("")
	require.NoError(t, err)
	assert.Equal(t, types.IDPolicySequence, p.Name())

	p, err = New(types.IDPolicyUUID)
	require.NoError(t, err)
	assert.Equal(t, types.IDPolicyUUID, p.Name())

	_, err = New("random")
	assert.ErrorIs(t, err, types.ErrIDPolicyUnknown)
}

func TestSequence_Next(t *testing.T) {
	tests := []struct {
		name string
		rows []types.Row
		want int64
	}{
		{"empty table starts at zero", nil, 0},
		{"one row", []types.Row{{"id": json.Number("0")}}, 1},
		{"max plus one, not count", []types.Row{{"id": json.Number("7")}, {"id": json.Number("3")}}, 8},
		{"gaps are not reused", []types.Row{{"id": json.Number("0")}, {"id": json.Number("5")}}, 6},
		{"non-integer ids ignored", []types.Row{{"id": "abc"}, {"id": json.Number("2")}, {"name": "no id"}}, 3},
		{"only foreign ids", []types.Row{{"id": "abc"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sequence{}.Next(tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSequence_Normalize(t *testing.T) {
	valid := []any{0, int8(1), int16(2), int32(3), int64(4), uint(5), uint8(6), uint16(7), uint32(8), uint64(9), json.Number("10")}
	for i, in := range valid {
		got, err := Sequence{}.Normalize(in)
		require.NoError(t, err, "input %v", in)
		assert.Equal(t, int64(i), got)
	}

	invalid := []any{"1", -1, 1.5, nil, uint64(1 << 63), json.Number("1.5")}
	for _, in := range invalid {
		_, err := Sequence{}.Normalize(in)
		assert.ErrorIs(t, err, types.ErrInvalidArgument, "input %v", in)
	}
}

func TestSequence_ParseAndMatch(t *testing.T) {
	id, err := Sequence{}.Parse("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = Sequence{}.Parse("twelve")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	assert.True(t, Sequence{}.Match(json.Number("12"), id))
	assert.True(t, Sequence{}.Match(float64(12), id))
	assert.False(t, Sequence{}.Match("12", id), "string ids never match integer ids")
	assert.False(t, Sequence{}.Match(json.Number("13"), id))
}

func TestUUID_Next(t *testing.T) {
	rows := []types.Row{}
	seen := map[any]bool{}
	for range 100 {
		id, err := UUID{}.Next(rows)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id %v", id)
		seen[id] = true

		parsed, err := uuid.Parse(id.(string))
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		rows = append(rows, types.Row{"id": id})
	}
}

func TestUUID_NormalizeAndMatch(t *testing.T) {
	id, err := UUID{}.Normalize("1")
	require.NoError(t, err)
	assert.True(t, UUID{}.Match("1", id))
	assert.False(t, UUID{}.Match(json.Number("1"), id), "numeric ids never match string ids")

	u := uuid.New()
	id, err = UUID{}.Normalize(u)
	require.NoError(t, err)
	assert.Equal(t, u.String(), id)

	for _, in := range []any{"", 1, nil} {
		_, err := UUID{}.Normalize(in)
		assert.ErrorIs(t, err, types.ErrInvalidArgument, "input %v", in)
	}
}

func TestFind(t *testing.T) {
	rows := []types.Row{{"id": "a"}, {"name": "no id"}, {"id": "b"}}
	assert.Equal(t, 2, Find(UUID{}, rows, "b"))
	assert.Equal(t, -1, Find(UUID{}, rows, "c"))
}
