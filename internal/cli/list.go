package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <table>",
		Short: "List every row of a table",
		Long: `List prints the rows of the table in stored order. A missing table
prints an empty list.

Example:
  shelf list browsers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				rows, err := store.GetAll(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printJSON(cmd.OutOrStdout(), rows)
			})
		},
	}
}
