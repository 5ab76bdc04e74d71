// site.go implements the mdbook site commands
// ("gbdocs pandocs", "gbdocs dmg01").
//
// Running the command serves the book with `mdbook serve` on the first free
// port from the site's start port. The "save" subcommand bookmarks a page
// path so the next launch prints a link straight to it.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/mdbook"
	"github.com/shinji-kodama/gbdocs/internal/model"
)

// NewSiteCommand creates the command for the configured mdbook site name.
func NewSiteCommand(name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Long: fmt.Sprintf(`Serve the %[1]s book locally with mdbook.

The server starts on the first free port at or above the site's start
port and opens the book in your browser. If a page was bookmarked with
"gbdocs %[1]s save", its URL is printed as well.

Examples:
  gbdocs %[1]s
  gbdocs %[1]s save "Timer_and_Divider_Registers.html"`, name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			return runSite(cmd, e, name)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <page>",
		Short: "Bookmark a page of the book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			return runSiteSave(e, name, args[0])
		},
	})

	return cmd
}

func lookupSite(e *env, name string) (model.Site, error) {
	site, ok := e.Config.Site(name)
	if !ok {
		return model.Site{}, model.NewCLIError(model.ExitInvalidArgument,
			fmt.Sprintf("site %q is not configured", name))
	}
	return site, nil
}

// runSite serves the site until mdbook exits.
func runSite(cmd *cobra.Command, e *env, name string) error {
	site, err := lookupSite(e, name)
	if err != nil {
		return err
	}
	VerboseLog("Serving %s from %s, port probe %q", site.Name, site.Dir, e.Config.Probe)

	server := mdbook.NewServer(e.Runner, e.probe(cmd.Context()), e.Store, e.Out)
	return server.Serve(e.Root, site)
}

func runSiteSave(e *env, name, page string) error {
	site, err := lookupSite(e, name)
	if err != nil {
		return err
	}
	server := mdbook.NewServer(e.Runner, nil, e.Store, e.Out)
	return server.SaveBookmark(e.Root, site, page)
}
