package types

import (
	"context"
	"errors"
	"fmt"
)

// Store provides table-level CRUD over a single JSON document.
// Every operation reads the document fresh, and operations on one Store run
// one at a time in the order they were called.
type Store interface {
	// Create appends row to table, creating the table when absent, and
	// returns the stored row with its assigned id.
	Create(ctx context.Context, table string, row Row) (Row, error)

	// GetAll returns every row of table. A missing table yields an empty slice.
	GetAll(ctx context.Context, table string) ([]Row, error)

	// GetByID returns the row whose id equals id.
	// Returns a *NotFoundError if the table or row does not exist.
	GetByID(ctx context.Context, table string, id any) (Row, error)

	// UpdateByID merges patch into the row whose id equals id and returns
	// the updated row. Returns a *NotFoundError if the table or row does not exist.
	UpdateByID(ctx context.Context, table string, id any, patch Row) (Row, error)

	// RemoveByID deletes the row whose id equals id. Removing a missing row
	// succeeds without touching the document.
	RemoveByID(ctx context.Context, table string, id any) error

	// ParseID converts textual input, such as a CLI argument, to an id of
	// the store's identifier policy.
	ParseID(text string) (any, error)

	// Close waits for queued operations and releases the backing storage.
	// Operations called after Close return ErrStoreClosed.
	Close() error
}

// Store operation errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("row not found")
	ErrCorruptDocument = errors.New("corrupt document")
	ErrStoreClosed     = errors.New("store is closed")
)

// NotFoundError reports a table/id combination with no matching row.
type NotFoundError struct {
	Table string
	ID    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("row with identifier %v was not found in table %q", e.ID, e.Table)
}

// Unwrap lets errors.Is match ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
