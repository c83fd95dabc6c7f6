package main

import (
	"os"

	"github.com/prasetyo/sentra/cmd/sentra/commands"
)

// main is the entry point for the Sentra CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
