// Package main is the entry point for the mathdiff CLI.
package main

import (
	"os"

	"github.com/roach88/mathdiff/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
