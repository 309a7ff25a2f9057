package main

import (
	"os"

	"ip-tracker/cmd/track-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
