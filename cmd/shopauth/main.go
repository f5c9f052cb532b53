package main

import (
	"os"

	"github.com/you/shopauth/cmd/shopauth/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
