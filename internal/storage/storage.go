// Package storage provides the byte-stream backends a document store reads
// and writes whole documents through.
//
// Backends are addressed by path and must make writes all-or-nothing: a
// failed Write leaves the previous document in place. They do not order
// concurrent callers; the document store serializes access.
package storage

import (
	"context"
	"io"
)

// Storage reads and overwrites whole documents.
type Storage interface {
	// Read returns the stored bytes for path. An absent document is not an
	// error: Read returns nil, nil.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write replaces the document at path with data.
	Write(ctx context.Context, path string, data []byte) error
}

// Close releases s if it holds resources.
func Close(s Storage) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
