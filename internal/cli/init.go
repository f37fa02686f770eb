package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize shelf configuration and storage",
		Long: "Write config.yaml with the effective settings, create the data directory\n" +
			"and check that the configured store opens.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config.yaml")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, force bool) error {
	configPath := filepath.Join(a.configDir, configFileExt)
	if err := writeConfig(configPath, a.cfg, force); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(a.cfg.Path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := a.withStore(cmd, func(types.Store) error { return nil }); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Shelf initialized\nconfig: %s\ndocument: %s\n", configPath, a.cfg.Path)
	return nil
}

// writeConfig writes cfg as config.yaml. An existing file written on first
// run is replaced only when force is set or it still holds the defaults.
func writeConfig(path string, cfg types.Config, force bool) error {
	if !force {
		existing, err := os.ReadFile(path)
		if err == nil && string(existing) != defaultConfigYAML {
			return nil
		}
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
