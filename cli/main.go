package main

import (
	"os"

	"github.com/trebuchet-org/splitter-cli/internal/cli"
	"github.com/trebuchet-org/splitter-cli/internal/cli/render"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		render.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
