package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Get a row by id",
		Long: `Get prints the row of the table with the given id.

Example:
  shelf get browsers 1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store types.Store) error {
				id, err := store.ParseID(args[1])
				if err != nil {
					return err
				}
				row, err := store.GetByID(cmd.Context(), args[0], id)
				if err != nil {
					return err
				}
				return a.printJSON(cmd.OutOrStdout(), row)
			})
		},
	}
}
