// Package main provides the entry point for the txtsearch CLI.
package main

import (
	"os"

	"github.com/txtsearch/txtsearch/cmd/txtsearch/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
