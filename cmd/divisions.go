package cmd

import (
	"fmt"

	"github.com/talentpipe/cv-ranker/internal/division"

	"github.com/spf13/cobra"
)

var divisionsCmd = &cobra.Command{
	Use:   "divisions",
	Short: "List the built-in division presets and their weights",
	Run: func(_ *cobra.Command, _ []string) {
		for _, name := range division.Names() {
			preset, _ := division.Lookup(name)

			strict := ""
			if preset.Strict {
				strict = ", strict"
			}
			fmt.Printf("%s (threshold %.0f%s)\n", name, preset.Threshold, strict)

			for _, criterion := range preset.Criteria {
				fmt.Printf("  %-15s %.2f\n", criterion.Name, criterion.Weight)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(divisionsCmd)
}
