package commands

import (
	"slices"
	"strings"

	"fbref-scraper/internal/synthetic"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(teamsCmd)
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Lists the teams that resolve without a search.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		known, err := loadKnown(cfg)
		if err != nil {
			return err
		}
		offline := synthetic.Default().Names()

		tw := table.NewWriter()
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"Key", "Aliases", "ID", "Name", "Offline"})
		for _, team := range known.All() {
			hasOffline := ""
			if slices.Contains(offline, team.Name) {
				hasOffline = "yes"
			}
			tw.AppendRow(table.Row{
				team.Key,
				strings.Join(team.Aliases, ", "),
				team.ID,
				team.Name,
				hasOffline,
			})
		}
		tw.Render()
		return nil
	},
}
