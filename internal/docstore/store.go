package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mesh-intelligence/shelf/internal/codec"
	"github.com/mesh-intelligence/shelf/internal/ident"
	"github.com/mesh-intelligence/shelf/internal/serial"
	"github.com/mesh-intelligence/shelf/internal/storage"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Store is a document store bound to one path on one Storage.
type Store struct {
	path    string
	storage storage.Storage
	codec   codec.Codec
	ids     ident.Policy
	logger  *slog.Logger
	serial  *serial.Serializer

	// mu orders the closed check against submission so nothing is queued
	// behind the task that closes the storage.
	mu     sync.RWMutex
	closed bool
}

var _ types.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCodec sets the document codec. The default is codec.JSON{}.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithIDPolicy sets the identifier policy. The default is ident.Sequence{}.
func WithIDPolicy(p ident.Policy) Option {
	return func(s *Store) { s.ids = p }
}

// WithLogger sets the logger for the store and its serializer.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store for the document at path.
func New(path string, st storage.Storage, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidArgument, types.ErrPathEmpty)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: storage is nil", types.ErrInvalidArgument)
	}
	s := &Store{
		path:    path,
		storage: st,
		codec:   codec.JSON{},
		ids:     ident.Sequence{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("path", path)
	s.serial = serial.New(serial.WithLogger(s.logger))
	return s, nil
}

// IDPolicy returns the configuration name of the identifier policy.
func (s *Store) IDPolicy() string {
	return s.ids.Name()
}

// ParseID converts textual input to an identifier of the store's policy.
func (s *Store) ParseID(text string) (any, error) {
	return s.ids.Parse(text)
}

// Close waits for every queued operation, then closes the storage. Later
// calls return ErrStoreClosed. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	f := serial.Submit(s.serial, func(succeed func(struct{}), fail func(error)) {
		if err := storage.Close(s.storage); err != nil {
			fail(fmt.Errorf("closing storage: %w", err))
			return
		}
		succeed(struct{}{})
	})
	s.mu.Unlock()

	_, err := f.Wait(context.Background())
	return err
}

// submit queues fn as one task. The task runs with ctx's values but not its
// cancellation: once queued, an operation always runs to completion.
func submit[T any](s *Store, ctx context.Context, op, table string, fn func(ctx context.Context) (T, error)) *serial.Future[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return serial.Failed[T](types.ErrStoreClosed)
	}

	ctx = context.WithoutCancel(ctx)
	return serial.Submit(s.serial, func(succeed func(T), fail func(error)) {
		start := time.Now()
		v, err := fn(ctx)
		if err != nil {
			s.logger.DebugContext(ctx, "docstore: operation failed", "op", op, "table", table, "err", err)
			fail(err)
			return
		}
		s.logger.DebugContext(ctx, "docstore: operation done", "op", op, "table", table, "elapsed", time.Since(start))
		succeed(v)
	})
}

// load reads and parses the document.
func (s *Store) load(ctx context.Context) (types.Document, error) {
	data, err := s.storage.Read(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	doc, err := s.codec.Parse(data)
	if err != nil {
		if !errors.Is(err, types.ErrCorruptDocument) {
			err = fmt.Errorf("%w: %w", types.ErrCorruptDocument, err)
		}
		s.logger.WarnContext(ctx, "docstore: stored document does not parse", "err", err)
		return nil, err
	}
	return doc, nil
}

// save serializes and writes the document.
func (s *Store) save(ctx context.Context, doc types.Document) error {
	data, err := s.codec.Serialize(doc)
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}
	if err := s.storage.Write(ctx, s.path, data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func validTable(table string) error {
	if table == "" {
		return fmt.Errorf("%w: table name must not be empty", types.ErrInvalidArgument)
	}
	return nil
}

// CreateAsync queues a create and returns its future. The row is copied at
// call time; the caller's map is never modified.
func (s *Store) CreateAsync(ctx context.Context, table string, row types.Row) *serial.Future[types.Row] {
	if err := validTable(table); err != nil {
		return serial.Failed[types.Row](err)
	}
	if row == nil {
		return serial.Failed[types.Row](fmt.Errorf("%w: row must not be nil", types.ErrInvalidArgument))
	}
	row = row.Clone()

	return submit(s, ctx, "create", table, func(ctx context.Context) (types.Row, error) {
		doc, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		rows := doc[table]
		id, err := s.ids.Next(rows)
		if err != nil {
			return nil, err
		}
		row[types.IDField] = id
		doc[table] = append(rows, row)
		if err := s.save(ctx, doc); err != nil {
			return nil, err
		}
		return row, nil
	})
}

// Create implements types.Store.
func (s *Store) Create(ctx context.Context, table string, row types.Row) (types.Row, error) {
	return s.CreateAsync(ctx, table, row).Wait(ctx)
}

// GetAllAsync queues a read of every row of table.
func (s *Store) GetAllAsync(ctx context.Context, table string) *serial.Future[[]types.Row] {
	if err := validTable(table); err != nil {
		return serial.Failed[[]types.Row](err)
	}

	return submit(s, ctx, "getAll", table, func(ctx context.Context) ([]types.Row, error) {
		doc, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		rows, ok := doc.Table(table)
		if !ok {
			rows = []types.Row{}
		}
		return rows, nil
	})
}

// GetAll implements types.Store.
func (s *Store) GetAll(ctx context.Context, table string) ([]types.Row, error) {
	return s.GetAllAsync(ctx, table).Wait(ctx)
}

// GetByIDAsync queues a lookup of one row.
func (s *Store) GetByIDAsync(ctx context.Context, table string, id any) *serial.Future[types.Row] {
	if err := validTable(table); err != nil {
		return serial.Failed[types.Row](err)
	}
	id, err := s.ids.Normalize(id)
	if err != nil {
		return serial.Failed[types.Row](err)
	}

	return submit(s, ctx, "getById", table, func(ctx context.Context) (types.Row, error) {
		doc, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		rows := doc[table]
		i := ident.Find(s.ids, rows, id)
		if i < 0 {
			return nil, &types.NotFoundError{Table: table, ID: id}
		}
		return rows[i], nil
	})
}

// GetByID implements types.Store.
func (s *Store) GetByID(ctx context.Context, table string, id any) (types.Row, error) {
	return s.GetByIDAsync(ctx, table, id).Wait(ctx)
}

// UpdateByIDAsync queues a shallow merge of patch into one row. A patch may
// carry the row's own id but not a different one.
func (s *Store) UpdateByIDAsync(ctx context.Context, table string, id any, patch types.Row) *serial.Future[types.Row] {
	if err := validTable(table); err != nil {
		return serial.Failed[types.Row](err)
	}
	id, err := s.ids.Normalize(id)
	if err != nil {
		return serial.Failed[types.Row](err)
	}
	if patch == nil {
		return serial.Failed[types.Row](fmt.Errorf("%w: patch must not be nil", types.ErrInvalidArgument))
	}
	patch = patch.Clone()
	if pid, ok := patch.ID(); ok {
		if !s.ids.Match(pid, id) {
			return serial.Failed[types.Row](fmt.Errorf("%w: patch id %v does not match row id %v", types.ErrInvalidArgument, pid, id))
		}
		delete(patch, types.IDField)
	}

	return submit(s, ctx, "updateById", table, func(ctx context.Context) (types.Row, error) {
		doc, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		rows, ok := doc.Table(table)
		if !ok {
			return nil, &types.NotFoundError{Table: table, ID: id}
		}
		i := ident.Find(s.ids, rows, id)
		if i < 0 {
			return nil, &types.NotFoundError{Table: table, ID: id}
		}
		rows[i].Merge(patch)
		if err := s.save(ctx, doc); err != nil {
			return nil, err
		}
		return rows[i], nil
	})
}

// UpdateByID implements types.Store.
func (s *Store) UpdateByID(ctx context.Context, table string, id any, patch types.Row) (types.Row, error) {
	return s.UpdateByIDAsync(ctx, table, id, patch).Wait(ctx)
}

// RemoveByIDAsync queues a delete. A missing table or row leaves the
// document untouched and is not an error.
func (s *Store) RemoveByIDAsync(ctx context.Context, table string, id any) *serial.Future[struct{}] {
	if err := validTable(table); err != nil {
		return serial.Failed[struct{}](err)
	}
	id, err := s.ids.Normalize(id)
	if err != nil {
		return serial.Failed[struct{}](err)
	}

	return submit(s, ctx, "removeById", table, func(ctx context.Context) (struct{}, error) {
		doc, err := s.load(ctx)
		if err != nil {
			return struct{}{}, err
		}
		rows, ok := doc.Table(table)
		if !ok || ident.Find(s.ids, rows, id) < 0 {
			return struct{}{}, nil
		}
		doc[table] = slices.DeleteFunc(rows, func(row types.Row) bool {
			stored, ok := row.ID()
			return ok && s.ids.Match(stored, id)
		})
		return struct{}{}, s.save(ctx, doc)
	})
}

// RemoveByID implements types.Store.
func (s *Store) RemoveByID(ctx context.Context, table string, id any) error {
	_, err := s.RemoveByIDAsync(ctx, table, id).Wait(ctx)
	return err
}
