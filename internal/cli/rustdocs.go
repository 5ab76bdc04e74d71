// rustdocs.go implements the "gbdocs rust-docs" command.
//
// With no argument the local Rust documentation opens at the bookmarked
// page. A page argument is bookmarked and opened. "save" bookmarks without
// opening and "list" prints well-known pages.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/rustdocs"
)

// NewRustDocsCommand creates the "rust-docs" cobra command.
func NewRustDocsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rust-docs [page]",
		Short: "Open the local Rust documentation",
		Long: `Open the Rust documentation installed by rustup.

With no page, the last bookmarked page (or the documentation index) is
opened. A page path relative to the documentation root is bookmarked and
opened; full http(s) or file:// URLs are opened as given.

Examples:
  gbdocs rust-docs
  gbdocs rust-docs book/ch04-00-understanding-ownership.html
  gbdocs rust-docs save "std/vec/struct.Vec.html"
  gbdocs rust-docs list`,
		Args: cobra.MaximumNArgs(1),
		RunE: withLauncher(func(l *rustdocs.Launcher, args []string) error {
			if len(args) == 0 {
				return l.Resume()
			}
			return l.OpenPage(args[0])
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <page>",
		Short: "Bookmark a page without opening it",
		Args:  cobra.ExactArgs(1),
		RunE: withLauncher(func(l *rustdocs.Launcher, args []string) error {
			return l.Save(args[0])
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List common documentation pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if IsJSONOutput() {
				return writeJSON(cmd.OutOrStdout(), rustdocs.CommonPages())
			}
			return withLauncher(func(l *rustdocs.Launcher, args []string) error {
				l.List()
				return nil
			})(cmd, args)
		},
	})

	return cmd
}

// withLauncher adapts a Launcher action into a cobra RunE function.
func withLauncher(fn func(l *rustdocs.Launcher, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		loc := e.bookmarkLocation(e.Config.RustDocs.Bookmark)
		return fn(rustdocs.NewLauncher(e.Runner, e.Store, e.Out, loc), args)
	}
}
