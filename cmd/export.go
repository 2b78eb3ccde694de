package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportOutput    string
	exportPlaintext bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the provider configuration as JSON",
	Long: `Export the provider configuration. API keys are redacted by default;
--plaintext includes the decrypted keys and should be handled with care.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := newStore().Export(!exportPlaintext)
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportPlaintext, "plaintext", false, "include decrypted API keys")
	rootCmd.AddCommand(exportCmd)
}
