// Package main is the entry point for the advisor command line tool.
package main

import (
	"github.com/aristath/advisor/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.Execute(version)
}
