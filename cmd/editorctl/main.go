package main

import "github.com/scrivlet/editorcore/cmd/editorctl/cmd"

func main() {
	cmd.Execute()
}
