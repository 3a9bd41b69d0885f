package main

import (
	"os"

	"github.com/settld-dev/settld/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
