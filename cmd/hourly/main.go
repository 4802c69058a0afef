package main

import (
	"os"

	"github.com/viant/hourly/cmd/hourly/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
