// Package main is the entry point for the gitrepo CLI.
//
// All functionality lives in the internal/cli package, which defines the
// cobra commands. Build-time variables (version, commit, date) are
// injected via ldflags; during development they default to "dev",
// "none" and "unknown".
package main

import (
	"github.com/mmr-tortoise/gitrepo/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
