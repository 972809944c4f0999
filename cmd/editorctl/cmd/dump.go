package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrivlet/editorcore/editor"
	"github.com/scrivlet/editorcore/htmlbridge"
	"github.com/scrivlet/editorcore/schema"
)

var (
	dumpFormat string
	dumpOutput string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.json>",
	Short: "Render a document JSON file to another format",
	Long: `Convert a document-core JSON file to HTML or plain text.

Examples:
  editorctl dump doc.json --to=html
  editorctl dump doc.json --to=text -o doc.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(args[0])
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "to", "t", "html", "Output format: html, text")
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	reg := schema.New()
	if err := schema.RegisterBasic(reg); err != nil {
		return fmt.Errorf("schema setup: %w", err)
	}

	e := editor.New(reg)
	e.SetHTMLPipeline(htmlbridge.New())
	if err := e.Init(editor.Config{}); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer e.Destroy()

	if err := e.SetJSON(content); err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	var out string
	switch dumpFormat {
	case "html":
		out, err = e.GetHTML()
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	case "text":
		out = e.GetText()
	default:
		return fmt.Errorf("unknown format: %s (valid: html, text)", dumpFormat)
	}

	var w *os.File
	if dumpOutput != "" {
		w, err = os.Create(dumpOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer w.Close()
	} else {
		w = os.Stdout
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
