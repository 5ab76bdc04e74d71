// Package model defines the domain types and exit codes for the gbdocs CLI.
//
// This package contains plain data structures with no external dependencies:
// the reference repositories to clone (Resource), the mdbook sites to serve
// (Site) and the shortcut pages of the local Rust documentation (CommonPage).
//
// It also defines exit codes (ExitCode) and a custom error type (CLIError)
// that carries an exit code for proper OS process exit handling.
package model
