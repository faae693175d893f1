// Command p4x runs Perforce client commands and prints their output as
// structured JSON or YAML records.
package main

import (
	"os"

	"github.com/EmundoT/p4-plumbing/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		cmd.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
