// gbctr.go implements the "gbdocs gbctr" command.
//
// Without a subcommand the built PDF is opened at the bookmarked page.
// Subcommands build the book with just/typst, open it, bookmark a page
// number and remove the build artifacts.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/gbctr"
	"github.com/shinji-kodama/gbdocs/internal/model"
)

// NewGBCTRCommand creates the "gbctr" cobra command and its subcommands.
func NewGBCTRCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gbctr",
		Short: "Build and open the Game Boy Complete Technical Reference",
		Long: `Open the Game Boy Complete Technical Reference PDF, resuming at the
bookmarked page.

The book is built from resources/gb-ctr with "gbdocs gbctr build", which
needs just and typst (brew install just typst).

Examples:
  gbdocs gbctr
  gbdocs gbctr build
  gbdocs gbctr save 42
  gbdocs gbctr clean`,
		Args: cobra.NoArgs,
		RunE: withBook(func(b *gbctr.Book, args []string) error {
			return b.Open()
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Build the book (PDF)",
		Args:  cobra.NoArgs,
		RunE: withBook(func(b *gbctr.Book, args []string) error {
			return b.Build()
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "open",
		Short: "Open the built PDF in the browser",
		Args:  cobra.NoArgs,
		RunE: withBook(func(b *gbctr.Book, args []string) error {
			return b.Open()
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "save <page>",
		Short: "Bookmark a page number without opening the book",
		Args:  cobra.ExactArgs(1),
		RunE: withBook(func(b *gbctr.Book, args []string) error {
			page, err := parsePageArg(args[0])
			if err != nil {
				return err
			}
			return b.Save(page)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove build artifacts",
		Args:  cobra.NoArgs,
		RunE: withBook(func(b *gbctr.Book, args []string) error {
			return b.Clean()
		}),
	})

	return cmd
}

// withBook adapts a Book action into a cobra RunE function.
func withBook(fn func(b *gbctr.Book, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		VerboseLog("GB-CTR directory: %s", e.Config.GBCTR.Dir)
		return fn(gbctr.NewBook(e.Runner, e.Store, e.Out, e.Root, e.Config.GBCTR), args)
	}
}

// parsePageArg parses a positive page number.
func parsePageArg(arg string) (int, error) {
	page, err := strconv.Atoi(arg)
	if err != nil || page < 1 {
		return 0, model.NewCLIError(model.ExitInvalidArgument, fmt.Sprintf("invalid page number: %s", arg)).
			WithHint("Example: gbdocs gbctr save 25")
	}
	return page, nil
}
