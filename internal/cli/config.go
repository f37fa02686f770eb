// Config loading for the shelf CLI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "SHELF"
)

// Config keys, matching the yaml tags of types.Config.
const (
	cfgKeyStorage     = "storage"
	cfgKeyPath        = "path"
	cfgKeyIDPolicy    = "id_policy"
	cfgKeyCompression = "compression"
	cfgKeyIndent      = "indent"
	cfgKeyLogLevel    = "log_level"
)

// Flags bound to config keys.
const (
	flagStorage  = "storage"
	flagIDPolicy = "id-policy"
	flagLogLevel = "log-level"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Shelf CLI configuration

# Storage backend: file or sqlite
storage: file

# Identifier policy: sequence (0, 1, 2, ...) or uuid
id_policy: sequence

# Compression of the stored document: none or snappy
compression: none

# Document path (optional; overridable by --path flag)
# path:

# Log level: debug, info, warn or error
log_level: info
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run. SHELF_* env
// variables override the file and the flags in fs override both.
func loadConfig(configDir string, fs *pflag.FlagSet) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	defaults := types.Config{}.WithDefaults()
	v := viper.New()
	v.SetDefault(cfgKeyStorage, defaults.Storage)
	v.SetDefault(cfgKeyIDPolicy, defaults.IDPolicy)
	v.SetDefault(cfgKeyCompression, defaults.Compression)
	v.SetDefault(cfgKeyIndent, false)
	v.SetDefault(cfgKeyLogLevel, defaults.LogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, name := range map[string]string{
			cfgKeyStorage:  flagStorage,
			cfgKeyIDPolicy: flagIDPolicy,
			cfgKeyLogLevel: flagLogLevel,
		} {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// configFromViper copies the loaded settings into a types.Config.
func configFromViper(v *viper.Viper) types.Config {
	return types.Config{
		Storage:     v.GetString(cfgKeyStorage),
		Path:        v.GetString(cfgKeyPath),
		IDPolicy:    v.GetString(cfgKeyIDPolicy),
		Compression: v.GetString(cfgKeyCompression),
		Indent:      v.GetBool(cfgKeyIndent),
		LogLevel:    v.GetString(cfgKeyLogLevel),
	}
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
