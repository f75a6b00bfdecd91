package main

import (
	"os"

	"github.com/abelbrown/discovery/cmd/discovery/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
