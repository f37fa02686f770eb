package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newWatchCmd(a *app) *cobra.Command {
	var maxChanges int
	cmd := &cobra.Command{
		Use:   "watch <table>",
		Short: "Print a table each time the document changes",
		Long: `Watch prints the rows of the table, then prints them again every time
the document file is rewritten. It runs until interrupted. Only the file
storage backend can be watched.

Example:
  shelf watch browsers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args[0], maxChanges)
		},
	}
	cmd.Flags().IntVar(&maxChanges, "max-changes", 0, "exit after this many changes (0 means no limit)")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, table string, maxChanges int) error {
	if a.cfg.Storage != types.StorageFile {
		return fmt.Errorf("%w: watch needs the file storage backend, not %q", errUsage, a.cfg.Storage)
	}
	ctx := cmd.Context()
	path := a.cfg.Path
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// The store replaces the file by rename, so watch the directory and
	// filter on the document's name.
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	return a.withStore(cmd, func(store types.Store) error {
		show := func() error {
			rows, err := store.GetAll(ctx, table)
			if err != nil {
				return err
			}
			return a.printJSON(cmd.OutOrStdout(), rows)
		}
		if err := show(); err != nil {
			return err
		}

		changes := 0
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				a.logger.DebugContext(ctx, "cli: document changed", "op", event.Op.String())
				if err := show(); err != nil {
					a.logger.WarnContext(ctx, "cli: cannot read changed document", "err", err)
					continue
				}
				changes++
				if maxChanges > 0 && changes >= maxChanges {
					return nil
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				a.logger.WarnContext(ctx, "cli: error watching document", "err", err)
			}
		}
	})
}
