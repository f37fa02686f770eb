package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Remove a row by id",
		Long: `Delete removes the row with the given id. Deleting a row that does not
exist succeeds and leaves the document unchanged.

Example:
  shelf delete browsers 1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				id, err := store.ParseID(args[1])
				if err != nil {
					return err
				}
				if err := store.RemoveByID(cmd.Context(), args[0], id); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return a.printJSON(cmd.OutOrStdout(), map[string]any{"table": args[0], "id": id, "deleted": true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %v from %s\n", id, args[0])
				return nil
			})
		},
	}
}
