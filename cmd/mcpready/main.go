package main

import (
	"os"

	"github.com/nik-kale/mcp-readiness-scanner/cmd/mcpready/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(2)
	}
}
