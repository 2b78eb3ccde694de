package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"provmgr/config/models"
	"provmgr/config/validation"
	"provmgr/internal/presets"
)

var (
	addName    string
	addNPM     string
	addBaseURL string
	addAPIKey  string
	addModels  []string
	addPreset  string
)

var addCmd = &cobra.Command{
	Use:   "add <provider-id>",
	Short: "Add or update a provider entry",
	Long: `Add or update a provider entry. Missing fields can be prefilled from a
built-in preset:

  provmgr add openai --preset openai --api-key sk-...
  provmgr add local --base-url http://localhost:11434/v1 --model llama3.1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		entry := models.ProviderConfig{
			Name: addName,
			NPM:  addNPM,
			Options: models.ProviderOptions{
				BaseURL: addBaseURL,
				APIKey:  addAPIKey,
			},
		}

		if addPreset != "" {
			p, ok := presets.Get(addPreset)
			if !ok {
				return fmt.Errorf("unknown preset %q (see 'provmgr presets')", addPreset)
			}
			if entry.Name == "" {
				entry.Name = p.Name
			}
			if entry.NPM == "" {
				entry.NPM = p.NPM
			}
			if entry.Options.BaseURL == "" {
				entry.Options.BaseURL = p.BaseURL
			}
			if len(addModels) == 0 && p.DefaultModel != "" {
				addModels = []string{p.DefaultModel}
			}
		}

		if len(addModels) > 0 {
			entry.Models = make(map[string]models.ModelInfo, len(addModels))
			for _, m := range addModels {
				m = strings.TrimSpace(m)
				if m != "" {
					entry.Models[m] = models.ModelInfo{Name: m}
				}
			}
		}

		if res := validation.ValidateProvider(id, entry); !res.Valid {
			return fmt.Errorf("invalid provider entry:\n  %s", strings.Join(res.Errors, "\n  "))
		}

		if !newStore().AddOrUpdateProvider(id, entry) {
			return fmt.Errorf("failed to write configuration")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved provider %q\n", id)
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in provider presets",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range presets.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-14s %s\n", p.ID, p.Name, p.BaseURL)
		}
	},
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "display name")
	addCmd.Flags().StringVar(&addNPM, "npm", "", "npm package name (display metadata)")
	addCmd.Flags().StringVar(&addBaseURL, "base-url", "", "API base URL")
	addCmd.Flags().StringVar(&addAPIKey, "api-key", "", "API key (stored encrypted)")
	addCmd.Flags().StringSliceVar(&addModels, "model", nil, "model id (repeatable)")
	addCmd.Flags().StringVar(&addPreset, "preset", "", "prefill from a built-in preset")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(presetsCmd)
}
