package storage

import (
	"context"
	"fmt"

	"github.com/golang/snappy"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Snappy compresses documents with snappy block encoding before handing them
// to an inner Storage.
type Snappy struct {
	inner Storage
}

// NewSnappy wraps inner.
func NewSnappy(inner Storage) *Snappy {
	return &Snappy{inner: inner}
}

// Read implements Storage. Bytes that do not decode are reported as a
// corrupt document.
func (s *Snappy) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := s.inner.Read(ctx, path)
	if err != nil || len(data) == 0 {
		return data, err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: snappy: %w", types.ErrCorruptDocument, err)
	}
	return out, nil
}

// Write implements Storage.
func (s *Snappy) Write(ctx context.Context, path string, data []byte) error {
	return s.inner.Write(ctx, path, snappy.Encode(nil, data))
}

// Close closes the inner storage.
func (s *Snappy) Close() error {
	return Close(s.inner)
}
