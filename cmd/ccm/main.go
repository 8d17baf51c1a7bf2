// Package main implements the ccm CLI. It computes cyclomatic complexity
// measures from disassembled bytecode listings.
package main

import (
	"os"

	"github.com/l3aro/go-ccm/cmd/ccm/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`ccm version {{.Version}}
`)

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
