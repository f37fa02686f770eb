package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <id> <json>",
		Short: "Merge fields into a row",
		Long: `Update merges the top-level fields of the JSON object into the row with
the given id and prints the result. Fields not named are kept.

Example:
  shelf update browsers 1 '{"version":121}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseRowArg(args[2])
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(store types.Store) error {
				id, err := store.ParseID(args[1])
				if err != nil {
					return err
				}
				row, err := store.UpdateByID(cmd.Context(), args[0], id, patch)
				if err != nil {
					return err
				}
				return a.printJSON(cmd.OutOrStdout(), row)
			})
		},
	}
}
