package cmd

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"provmgr/internal/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers",
	Run: func(cmd *cobra.Command, args []string) {
		doc := newStore().Read(false)

		ids := make([]string, 0, len(doc.Provider))
		for id := range doc.Provider {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"ID", "Name", "Base URL", "API Key", "Models"})
		for _, id := range ids {
			p := doc.Provider[id]
			key := "-"
			if p.Options.APIKey != "" {
				key = utils.MaskAPIKey(p.Options.APIKey)
			}
			t.AppendRow(table.Row{id, p.Name, p.Options.BaseURL, key, len(p.Models)})
		}
		t.Render()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
