package docstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/internal/storage"
)

// recordingStorage wraps a Storage, counting calls and the number of calls
// in flight at once.
type recordingStorage struct {
	inner storage.Storage
	delay time.Duration

	mu       sync.Mutex
	reads    int
	writes   int
	readErr  error
	writeErr error
	gate     chan struct{}
	closed   bool

	active    atomic.Int32
	maxActive atomic.Int32
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{inner: storage.NewFile()}
}

func (r *recordingStorage) enter() func() {
	cur := r.active.Add(1)
	for {
		old := r.maxActive.Load()
		if cur <= old || r.maxActive.CompareAndSwap(old, cur) {
			break
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return func() { r.active.Add(-1) }
}

func (r *recordingStorage) Read(ctx context.Context, path string) ([]byte, error) {
	defer r.enter()()
	r.mu.Lock()
	r.reads++
	gate, err := r.gate, r.readErr
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return r.inner.Read(ctx, path)
}

func (r *recordingStorage) Write(ctx context.Context, path string, data []byte) error {
	defer r.enter()()
	r.mu.Lock()
	r.writes++
	err := r.writeErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.inner.Write(ctx, path, data)
}

func (r *recordingStorage) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingStorage) counts() (reads, writes int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads, r.writes
}

// newTestStore creates a store over a file in the test's temp directory.
func newTestStore(t *testing.T, opts ...Option) (*Store, *recordingStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	rec := newRecordingStorage()
	s, err := New(path, rec, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, rec, path
}

// writeDocument seeds the backing file.
func writeDocument(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readDocument(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
