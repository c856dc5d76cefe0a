// Package main is the entry point for the wikid CLI.
package main

import (
	"os"

	"github.com/wrenote/wikid/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
