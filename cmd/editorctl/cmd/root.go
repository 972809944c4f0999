package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "editorctl [file]",
	Short: "editorctl - a host and demo CLI for the structured rich-text editing engine",
	Long: `editorctl drives the editing engine core from a terminal: dump a
document JSON file as HTML or plain text, or open it in a minimal terminal
editor.

Examples:
  editorctl dump doc.json --to=html   Render a document to HTML
  editorctl edit doc.json             Open a document in the terminal editor`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			runEdit(args[0])
			return
		}
		runEdit("")
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
