package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <table> <json>",
		Short: "Append a row to a table",
		Long: `Create appends a row to the table, assigning it a fresh id, and prints
the stored row. The table is created if it does not exist.

Example:
  shelf create browsers '{"name":"chrome"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRowArg(args[1])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(store types.Store) error {
				created, err := store.Create(cmd.Context(), args[0], row)
				if err != nil {
					return err
				}
				return a.printJSON(cmd.OutOrStdout(), created)
			})
		},
	}
}
