package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YONSEI-TPLAB/map-api/pkg/tui"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive TUI",
	Long:  `Launch the Text User Interface to look up a single driving or transit trip and edit settings interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		return tui.RunTUI(client)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
