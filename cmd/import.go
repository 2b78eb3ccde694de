package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import providers from an exported JSON file",
	Long: `Import provider entries from an exported JSON file. Entries are merged into
the current configuration by default; --replace discards the current document
first. The existing config file is backed up before the import.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		count, err := newStore().Import(data, !importReplace)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d providers from %s\n", count, args[0])
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "replace the current configuration instead of merging")
	rootCmd.AddCommand(importCmd)
}
