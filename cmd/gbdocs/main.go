// Package main is the entry point for the gbdocs CLI.
//
// gbdocs launches the Game Boy reference documentation used while writing
// an emulator. All functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags,
// e.g.
//
//	go build -ldflags "-X main.version=1.2.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/gbdocs
package main

import (
	"github.com/shinji-kodama/gbdocs/internal/cli"
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

	cli.Execute(cli.NewRootCommand())
}
