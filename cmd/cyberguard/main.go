// Package main is the entry point for the cyberguard CLI.
package main

import (
	"os"

	"github.com/good-yellow-bee/cyberguard/cmd/cyberguard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
