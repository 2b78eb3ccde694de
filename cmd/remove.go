package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <provider-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a provider entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !newStore().DeleteProvider(id) {
			return fmt.Errorf("provider %q does not exist", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed provider %q\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
