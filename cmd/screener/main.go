package main

import (
	"os"

	"github.com/rdhawan/nifty-screener/cmd/screener/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
