package types

import (
	"errors"
	"log/slog"
	"strings"
)

// Config selects the storage backend, document location, and identifier
// policy for a Store.
type Config struct {
	Storage     string `json:"storage" yaml:"storage"`
	Path        string `json:"path" yaml:"path"`
	IDPolicy    string `json:"id_policy" yaml:"id_policy"`
	Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`
	Indent      bool   `json:"indent,omitempty" yaml:"indent,omitempty"`
	LogLevel    string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Supported storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Supported identifier policies.
const (
	IDPolicySequence = "sequence"
	IDPolicyUUID     = "uuid"
)

// Supported compression modes.
const (
	CompressionNone   = "none"
	CompressionSnappy = "snappy"
)

// Config validation errors.
var (
	ErrPathEmpty          = errors.New("path must not be empty")
	ErrStorageUnknown     = errors.New("unknown storage backend")
	ErrIDPolicyUnknown    = errors.New("unknown id policy")
	ErrCompressionUnknown = errors.New("unknown compression")
	ErrLogLevelUnknown    = errors.New("unknown log level")
)

var knownStorage = map[string]bool{
	StorageFile:   true,
	StorageSQLite: true,
}

var knownIDPolicies = map[string]bool{
	IDPolicySequence: true,
	IDPolicyUUID:     true,
}

var knownCompression = map[string]bool{
	CompressionNone:   true,
	CompressionSnappy: true,
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Storage == "" {
		c.Storage = StorageFile
	}
	if c.IDPolicy == "" {
		c.IDPolicy = IDPolicySequence
	}
	if c.Compression == "" {
		c.Compression = CompressionNone
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

// Validate checks that the Config is well-formed. Empty Storage, IDPolicy and
// Compression are accepted and mean the default. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	c = c.WithDefaults()
	if c.Path == "" {
		return ErrPathEmpty
	}
	if !knownStorage[c.Storage] {
		return ErrStorageUnknown
	}
	if !knownIDPolicies[c.IDPolicy] {
		return ErrIDPolicyUnknown
	}
	if !knownCompression[c.Compression] {
		return ErrCompressionUnknown
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, ErrLogLevelUnknown
	}
}
