package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"provmgr/config/models"
	"provmgr/internal/probe"
)

var (
	discoverBaseURL string
	discoverAPIKey  string
	discoverJSON    bool
	discoverSave    bool
	discoverTimeout time.Duration
)

var discoverCmd = &cobra.Command{
	Use:   "discover [provider-id]",
	Short: "Discover the models an endpoint offers",
	Long: `Query an OpenAI-compatible endpoint for its model list. With a provider id
the stored base URL and API key are used; --base-url/--api-key override them.
--save writes the discovered models back into the provider entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()

		baseURL, apiKey := discoverBaseURL, discoverAPIKey
		var id string
		if len(args) == 1 {
			id = args[0]
			entry, ok := store.GetProvider(id)
			if !ok {
				return fmt.Errorf("provider %q does not exist", id)
			}
			if baseURL == "" {
				baseURL = entry.Options.BaseURL
			}
			if apiKey == "" {
				apiKey = entry.Options.APIKey
			}
		}

		client := probe.New(probe.WithTimeout(discoverTimeout))
		found, err := client.DiscoverModels(cmd.Context(), baseURL, apiKey)
		if err != nil {
			return err
		}

		if discoverSave && id != "" {
			entry, _ := store.GetProvider(id)
			if entry.Models == nil {
				entry.Models = make(map[string]models.ModelInfo, len(found))
			}
			for modelID, info := range found {
				entry.Models[modelID] = info
			}
			if !store.AddOrUpdateProvider(id, entry) {
				return fmt.Errorf("failed to write configuration")
			}
		}

		if discoverJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{"models": found})
		}

		ids := make([]string, 0, len(found))
		for modelID := range found {
			ids = append(ids, modelID)
		}
		sort.Strings(ids)
		for _, modelID := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), modelID)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverBaseURL, "base-url", "", "API base URL")
	discoverCmd.Flags().StringVar(&discoverAPIKey, "api-key", "", "API key")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "output JSON")
	discoverCmd.Flags().BoolVar(&discoverSave, "save", false, "save discovered models into the provider entry")
	discoverCmd.Flags().DurationVar(&discoverTimeout, "timeout", probe.DefaultTimeout, "request timeout")
	rootCmd.AddCommand(discoverCmd)
}
