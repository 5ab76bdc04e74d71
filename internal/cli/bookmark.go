// bookmark.go implements the "gbdocs bookmark" command.
//
// "bookmark show" prints the page stored for every document, reading the
// bookmark files in the project root.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// bookmarkEntry is one document's bookmark as printed by "bookmark show".
type bookmarkEntry struct {
	Document string `json:"document"`
	File     string `json:"file"`
	Page     string `json:"page,omitempty"`
	Saved    bool   `json:"saved"`
}

// NewBookmarkCommand creates the "bookmark" cobra command.
func NewBookmarkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Inspect saved bookmarks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the bookmarked page of every document",
		Long: `Show the bookmarked page of every document.

Bookmarks are plain files in the project root and can be committed to git.

Examples:
  gbdocs bookmark show
  gbdocs bookmark show --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			entries := collectBookmarks(e)
			if IsJSONOutput() {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return formatBookmarks(cmd.OutOrStdout(), entries)
		},
	})

	return cmd
}

// collectBookmarks loads the bookmark of every configured document:
// rust-docs, gbctr, then each mdbook site that has one.
func collectBookmarks(e *env) []bookmarkEntry {
	docs := [][2]string{
		{"rust-docs", e.Config.RustDocs.Bookmark},
		{"gbctr", e.Config.GBCTR.Bookmark},
	}
	for _, site := range e.Config.Sites {
		if site.Bookmark != "" {
			docs = append(docs, [2]string{site.Name, site.Bookmark})
		}
	}

	entries := make([]bookmarkEntry, 0, len(docs))
	for _, d := range docs {
		page, ok := e.Store.Load(e.bookmarkLocation(d[1]))
		entries = append(entries, bookmarkEntry{Document: d[0], File: d[1], Page: page, Saved: ok})
	}
	return entries
}

// formatBookmarks writes entries as a fixed-width table:
//
//	DOCUMENT     PAGE                                      FILE
//	rust-docs    book/ch04-00-understanding-ownership.html .rust_docs_bookmark
//	gbctr        -                                         .gb_ctr_bookmark
func formatBookmarks(w io.Writer, entries []bookmarkEntry) error {
	if _, err := fmt.Fprintf(w, "%-12s %-41s %s\n", "DOCUMENT", "PAGE", "FILE"); err != nil {
		return err
	}
	for _, entry := range entries {
		page := entry.Page
		if !entry.Saved {
			page = "-"
		}
		if _, err := fmt.Fprintf(w, "%-12s %-41s %s\n", entry.Document, page, entry.File); err != nil {
			return err
		}
	}
	return nil
}
