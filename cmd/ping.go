package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"provmgr/internal/probe"
)

var (
	pingModel   string
	pingJSON    bool
	pingTimeout time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping <provider-id>",
	Short: "Test a provider's connectivity with a minimal prompt",
	Long: `Send one minimal chat request to a configured provider and report whether
the model answered, with latency:

  provmgr ping openai
  provmgr ping openai --model gpt-4o-mini --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		entry, ok := newStore().GetProvider(id)
		if !ok {
			return fmt.Errorf("provider %q does not exist", id)
		}

		model := pingModel
		if model == "" {
			// Any configured model will do for a connectivity check.
			for m := range entry.Models {
				model = m
				break
			}
		}

		client := probe.New(probe.WithTimeout(pingTimeout))
		result := client.TestConnection(cmd.Context(), entry.Options.BaseURL, entry.Options.APIKey, model)

		if pingJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
		}

		if !result.Success {
			return fmt.Errorf("test failed for %q: %s", id, result.Error)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK %s (%s, %dms): %s\n", id, result.Model, result.LatencyMS, result.Message)
		return nil
	},
}

func init() {
	pingCmd.Flags().StringVar(&pingModel, "model", "", "model id to test (default: any configured model)")
	pingCmd.Flags().BoolVar(&pingJSON, "json", false, "output JSON")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", probe.DefaultTimeout, "request timeout")
	rootCmd.AddCommand(pingCmd)
}
