package shelf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/internal/storage"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

func TestOpen_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.Config
		want error
	}{
		{"empty path", types.Config{}, types.ErrPathEmpty},
		{"unknown storage", types.Config{Path: "x", Storage: "redis"}, types.ErrStorageUnknown},
		{"unknown id policy", types.Config{Path: "x", IDPolicy: "random"}, types.ErrIDPolicyUnknown},
		{"unknown compression", types.Config{Path: "x", Compression: "zstd"}, types.ErrCompressionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, types.ErrInvalidArgument)
		})
	}
}

func TestOpen_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := Open(types.Config{Path: path, Indent: true})
	require.NoError(t, err)

	row, err := store.Create(ctx, "browsers", types.Row{"name": "chrome"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), row["id"])
	require.NoError(t, store.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"browsers\"", "indented output")
	assert.JSONEq(t, `{"browsers":[{"id":0,"name":"chrome"}]}`, string(data))

	// A second store over the same file sees the persisted rows.
	store, err = Open(types.Config{Path: path})
	require.NoError(t, err)
	defer store.Close()
	got, err := store.GetByID(ctx, "browsers", 0)
	require.NoError(t, err)
	assert.Equal(t, "chrome", got["name"])
}

func TestOpen_SQLiteSnappy(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shelf.db")
	cfg := types.Config{
		Path:        path,
		Storage:     types.StorageSQLite,
		Compression: types.CompressionSnappy,
		IDPolicy:    types.IDPolicyUUID,
	}

	store, err := Open(cfg)
	require.NoError(t, err)
	row, err := store.Create(ctx, "users", types.Row{"name": "x"})
	require.NoError(t, err)
	id, ok := row["id"].(string)
	require.True(t, ok)
	_, err = store.UpdateByID(ctx, "users", id, types.Row{"email": "a@b.com"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(cfg)
	require.NoError(t, err)
	defer store.Close()

	parsed, err := store.ParseID(id)
	require.NoError(t, err)
	got, err := store.GetByID(ctx, "users", parsed)
	require.NoError(t, err)
	assert.Equal(t, types.Row{"id": id, "name": "x", "email": "a@b.com"}, got)
}

func TestOpen_ParseIDFollowsPolicy(t *testing.T) {
	dir := t.TempDir()

	seq, err := Open(types.Config{Path: filepath.Join(dir, "a.json")})
	require.NoError(t, err)
	defer seq.Close()
	id, err := seq.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	_, err = seq.ParseID("abc")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	uid, err := Open(types.Config{Path: filepath.Join(dir, "b.json"), IDPolicy: types.IDPolicyUUID})
	require.NoError(t, err)
	defer uid.Close()
	id, err = uid.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

// closeFailingStorage is a Storage whose Close always fails.
type closeFailingStorage struct {
	storage.Storage
	closed bool
}

func (s *closeFailingStorage) Close() error {
	s.closed = true
	return errCloseFailed
}

var errCloseFailed = errors.New("close failed")

func TestNewStore_ClosesStorageOnFailure(t *testing.T) {
	st := &closeFailingStorage{Storage: storage.NewFile()}

	_, err := newStore("", st)
	require.Error(t, err)
	assert.True(t, st.closed)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.ErrorIs(t, err, errCloseFailed)
}
