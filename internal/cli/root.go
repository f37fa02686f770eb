// Package cli implements the shelf command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/pkg/shelf"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	path      string
	jsonMode  bool
}

// app is the state shared by one command tree: flags, the loaded
// configuration and the logger.
type app struct {
	flags     rootFlags
	cfg       types.Config
	configDir string
	dataDir   string
	logLevel  *slog.LevelVar
	logger    *slog.Logger
}

// NewRootCmd creates the top-level "shelf" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logLevel: &slog.LevelVar{}}

	root := &cobra.Command{
		Use:   "shelf",
		Short: "An embedded JSON document store",
		Long: "Shelf keeps named tables of JSON rows in a single document on disk.\n" +
			"Every operation reads, modifies and rewrites the whole document, one at a time.",
		Version: shelf.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.StringVar(&a.flags.path, "path", "", "document path (default: <data-dir>/shelf.json)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output compact JSON")
	pf.String(flagStorage, "", "storage backend: file or sqlite")
	pf.String(flagIDPolicy, "", "identifier policy: sequence or uuid")
	pf.String(flagLogLevel, "", "log level: debug, info, warn or error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newUpdateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newWatchCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status. Problems with the
// caller's input are user errors; everything else is a system error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrInvalidArgument),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, errUsage):
		return exitUserError
	default:
		return exitSysError
	}
}

// errUsage marks command-line mistakes cobra itself does not catch.
var errUsage = errors.New("usage error")

// setup resolves directories, loads config.yaml and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	a.configDir, err = paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.dataDir, err = paths.ResolveDataDir(a.flags.dataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	v, err := loadConfig(a.configDir, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = configFromViper(v)

	a.cfg.Path, err = paths.ResolveDocumentPath(a.flags.path, a.cfg.Path, a.dataDir, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("resolve document path: %w", err)
	}

	level, err := types.ParseLogLevel(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w: %q", errUsage, err, a.cfg.LogLevel)
	}
	a.logLevel.Set(level)
	a.logger = newLogger(cmd.ErrOrStderr(), a.logLevel)
	a.logger.Debug("cli: configuration loaded", "config_dir", a.configDir, "path", a.cfg.Path, "storage", a.cfg.Storage)
	return nil
}

// openStore opens the configured store. The caller must Close it.
func (a *app) openStore() (types.Store, error) {
	store, err := shelf.Open(a.cfg, shelf.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}
