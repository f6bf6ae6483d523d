/*
Package main is the entry point for the incidentops CLI.

Usage:

	incidentops [command]

Available Commands:

	serve       Run the HTTP API
	submit      Classify one note and print the result as JSON
	key         Print the cache key for a note
	token       Mint an operator JWT
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonwraymond/incidentops/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
)

func main() {
	root := cli.NewRootCmd(fmt.Sprintf("%s (commit: %s)", version, commit))
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
