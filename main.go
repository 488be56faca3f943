package main

import (
	"os"

	"bookreview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(1)
	}
}
