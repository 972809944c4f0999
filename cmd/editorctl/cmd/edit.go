package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/scrivlet/editorcore/cmd/editorctl/config"
	"github.com/scrivlet/editorcore/cmd/editorctl/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [file.json]",
	Short: "Open the terminal document editor",
	Long: `Open the minimal terminal editor for working with editor-core documents.

Examples:
  editorctl edit                Open a blank document
  editorctl edit doc.json       Open a specific document JSON file`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			runEdit(args[0])
		} else {
			runEdit("")
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(path string) {
	if _, err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "editorctl: config:", err)
		os.Exit(1)
	}

	m, err := tui.New(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "editorctl:", err)
		os.Exit(1)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "editorctl:", err)
		os.Exit(1)
	}
}
