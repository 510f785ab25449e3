// Package main is the entry point for the collegescout CLI.
package main

import (
	"os"

	"github.com/jmylchreest/collegescout/cmd/collegescout/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
