// Package cli implements the cobra-based CLI commands for gbdocs.
//
// Each subcommand (clone, pandocs, dmg01, gbctr, rust-docs, all, port,
// bookmark) is defined in its own file within this package. This file
// defines the root command that serves as the parent for all subcommands
// and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

// Global flag variables shared across all subcommands. They are bound to
// persistent flags on the root command, so every subcommand sees them.
var (
	// jsonOutput switches command results and errors to JSON. Progress
	// messages then go to stderr so stdout holds only the JSON document.
	jsonOutput bool

	// verbose enables [verbose] trace lines on stderr: the resolved
	// project root, the configuration source, probe fallbacks and the
	// containers holding busy ports.
	verbose bool

	// rootDir is the project root holding resources/ and the bookmark
	// files. Empty means the current directory.
	rootDir string
)

// Version, Commit and Date are set at build time via ldflags and injected
// from the main package.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates the root cobra command with every subcommand
// registered.
//
// The root command itself does nothing beyond help text and global flags.
// Each documentation viewer and utility is a subcommand.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "gbdocs",
		Short: "Launch the Game Boy reference documentation",
		Long: `gbdocs fetches and opens the reference documentation for Game Boy
emulator development: Pan Docs, the DMG-01 book, the Game Boy Complete
Technical Reference and the local Rust documentation.

Each document remembers the last page you bookmarked in a small file in
the project root, so the next launch picks up where you left off.`,

		// SilenceUsage keeps cobra from printing usage after every error;
		// a missing tool is not a usage mistake.
		SilenceUsage: true,

		// SilenceErrors leaves error output to Execute, which formats it
		// as text or JSON depending on --json.
		SilenceErrors: true,

		// Version is displayed by --version.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// Persistent flags are inherited by every subcommand. "gbdocs all"
	// passes --root and --verbose on to the viewers it starts.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Project root (default: current directory)")

	// Each subcommand lives in its own file. pandocs and dmg01 share one
	// constructor because both are mdbook sites.
	rootCmd.AddCommand(NewCloneCommand())
	rootCmd.AddCommand(NewSiteCommand("pandocs", "Serve Pan Docs, the Game Boy technical reference"))
	rootCmd.AddCommand(NewSiteCommand("dmg01", "Serve the DMG-01 emulator book"))
	rootCmd.AddCommand(NewGBCTRCommand())
	rootCmd.AddCommand(NewRustDocsCommand())
	rootCmd.AddCommand(NewAllCommand())
	rootCmd.AddCommand(NewPortCommand())
	rootCmd.AddCommand(NewBookmarkCommand())

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error. This is the entry point called from main.go.
//
// CLIErrors carry their own exit code, even when wrapped with %w; any
// other error exits with ExitGeneralError.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(int(model.ExitCodeOf(err)))
	}
}

// printError writes err to w as text or, with --json, as a JSON object.
// CLIErrors contribute their message, underlying error and hint.
//
// Errors always go to stderr, even in JSON mode, because stdout is
// reserved for successful command output.
func printError(w io.Writer, err error) {
	message, detail, hint := err.Error(), "", ""
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		message = cliErr.Message
		if cliErr.Err != nil {
			detail = cliErr.Err.Error()
		}
		hint = cliErr.Hint
	}

	if jsonOutput {
		errObj := map[string]interface{}{
			"message": message,
			"code":    int(model.ExitCodeOf(err)),
		}
		if detail != "" {
			errObj["detail"] = detail
		}
		if hint != "" {
			errObj["hint"] = hint
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	// Text format: "Error: <message>" followed by the hint, styled when w
	// is a terminal.
	p := ui.New(w, w)
	if detail != "" {
		p.Errorf("%s: %s", message, detail)
	} else {
		p.Errorf("%s", message)
	}
	if hint != "" {
		p.Hintf("%s", hint)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// Commands use it for trace output about what they resolved and ran.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
