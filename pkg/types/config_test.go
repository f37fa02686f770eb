package types

import (
	"errors"
	"log/slog"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty path returns ErrPathEmpty",
			config:  Config{Storage: StorageFile},
			wantErr: ErrPathEmpty,
		},
		{
			name:    "unknown storage returns ErrStorageUnknown",
			config:  Config{Storage: "postgres", Path: "/tmp/data.json"},
			wantErr: ErrStorageUnknown,
		},
		{
			name:    "unknown id policy returns ErrIDPolicyUnknown",
			config:  Config{Path: "/tmp/data.json", IDPolicy: "random"},
			wantErr: ErrIDPolicyUnknown,
		},
		{
			name:    "unknown compression returns ErrCompressionUnknown",
			config:  Config{Path: "/tmp/data.json", Compression: "zstd"},
			wantErr: ErrCompressionUnknown,
		},
		{
			name:    "unknown log level returns ErrLogLevelUnknown",
			config:  Config{Path: "/tmp/data.json", LogLevel: "loud"},
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:    "defaults are valid",
			config:  Config{Path: "/tmp/data.json"},
			wantErr: nil,
		},
		{
			name: "sqlite uuid snappy",
			config: Config{
				Storage:     StorageSQLite,
				Path:        "/tmp/data.db",
				IDPolicy:    IDPolicyUUID,
				Compression: CompressionSnappy,
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{Path: "data.json"}.WithDefaults()
	if c.Storage != StorageFile || c.IDPolicy != IDPolicySequence || c.Compression != CompressionNone || c.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil {
			t.Fatalf("ParseLogLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
