package main

import (
	"os"

	"github.com/psantana5/tictoc/cmd/tictoc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
