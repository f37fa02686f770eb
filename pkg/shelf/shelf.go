// Package shelf opens document stores from a types.Config. It is the public
// entry point; storage, codec and identifier details stay internal.
package shelf

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/shelf/internal/codec"
	"github.com/mesh-intelligence/shelf/internal/docstore"
	"github.com/mesh-intelligence/shelf/internal/ident"
	"github.com/mesh-intelligence/shelf/internal/storage"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Version is the shelf release.
const Version = "0.1.0"

// SQLiteDocument is the key under which the SQLite backend keeps the
// document. Config.Path names the database file.
const SQLiteDocument = "main"

type options struct {
	logger *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger used by the store.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Open validates cfg and returns a store over the configured backend. The
// caller must Close the store.
//
// Example:
//
//	store, err := shelf.Open(types.Config{Path: "db.json"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	row, err := store.Create(ctx, "browsers", types.Row{"name": "chrome"})
func Open(cfg types.Config, opts ...Option) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidArgument, err)
	}
	cfg = cfg.WithDefaults()

	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	policy, err := ident.New(cfg.IDPolicy)
	if err != nil {
		return nil, err
	}

	var (
		st  storage.Storage
		key = cfg.Path
	)
	switch cfg.Storage {
	case types.StorageSQLite:
		db, err := storage.NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		st, key = db, SQLiteDocument
	default:
		st = storage.NewFile()
	}
	if cfg.Compression == types.CompressionSnappy {
		st = storage.NewSnappy(st)
	}

	storeOpts := []docstore.Option{
		docstore.WithIDPolicy(policy),
		docstore.WithLogger(o.logger.With("storage", cfg.Storage)),
	}
	if cfg.Indent {
		storeOpts = append(storeOpts, docstore.WithCodec(codec.JSON{Indent: "  "}))
	}

	store, err := newStore(key, st, storeOpts...)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("shelf: store opened", "path", cfg.Path, "storage", cfg.Storage, "id_policy", cfg.IDPolicy, "compression", cfg.Compression)
	return store, nil
}

// newStore builds the store over st. On failure st is closed, since the
// caller never receives a store that would own it.
func newStore(key string, st storage.Storage, opts ...docstore.Option) (*docstore.Store, error) {
	store, err := docstore.New(key, st, opts...)
	if err != nil {
		if cerr := storage.Close(st); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing storage: %w", cerr))
		}
		return nil, err
	}
	return store, nil
}
