package main

import (
	"os"

	"didsystem/cmd/did/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
