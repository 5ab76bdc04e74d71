// Package rustdocs opens the Rust documentation installed by rustup,
// resuming from a bookmarked page.
package rustdocs

import (
	"errors"
	"strings"

	"github.com/shinji-kodama/gbdocs/internal/bookmark"
	"github.com/shinji-kodama/gbdocs/internal/browser"
	"github.com/shinji-kodama/gbdocs/internal/execx"
	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

// Launcher opens local Rust documentation pages.
type Launcher struct {
	Runner execx.Runner
	Opener *browser.Opener
	Store  *bookmark.Store
	Out    *ui.Printer

	// Bookmark is where the last opened page is kept.
	Bookmark bookmark.Location
}

// NewLauncher returns a Launcher using the default browser.
func NewLauncher(runner execx.Runner, store *bookmark.Store, out *ui.Printer, loc bookmark.Location) *Launcher {
	return &Launcher{
		Runner:   runner,
		Opener:   browser.NewOpener(runner, ""),
		Store:    store,
		Out:      out,
		Bookmark: loc,
	}
}

// DocPath asks rustup where the documentation index lives.
func (l *Launcher) DocPath() (string, error) {
	if !l.Runner.Exists("rustup") {
		return "", model.NewCLIError(model.ExitToolMissing, "rustup is not installed").
			WithHint("Make sure Rust is installed and rustup is available: https://rustup.rs")
	}
	out, err := l.Runner.Output("rustup", "doc", "--path")
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to get Rust documentation path", err)
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return "", model.NewCLIError(model.ExitGeneralError, "rustup reported an empty documentation path").
			WithHint("Install the docs component: rustup component add rust-docs")
	}
	return path, nil
}

// Resume opens the bookmarked page, or the documentation index when there
// is no bookmark.
func (l *Launcher) Resume() error {
	page, ok := l.Store.Load(l.Bookmark)
	if ok {
		l.Out.Infof("Resuming from bookmark: %s", page)
	}
	return l.open(page)
}

// OpenPage bookmarks page and opens it.
func (l *Launcher) OpenPage(page string) error {
	if err := l.Save(page); err != nil {
		return err
	}
	return l.open(strings.TrimSpace(page))
}

// Save bookmarks page without opening it.
func (l *Launcher) Save(page string) error {
	page = strings.TrimSpace(page)
	if page == "" {
		return model.NewCLIError(model.ExitInvalidArgument, "page must not be empty").
			WithHint(`Example: gbdocs rust-docs save "book/ch01-01-installation.html"`)
	}
	if err := l.Store.Save(l.Bookmark, page); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to save bookmark", err)
	}
	l.Out.Successf("Bookmarked: %s", page)
	return nil
}

// List prints CommonPages, numbered from 1.
func (l *Launcher) List() {
	l.Out.Header("Common Rust documentation pages:")
	l.Out.Blank()
	for i, p := range CommonPages() {
		l.Out.Infof("  %d. %s - %s", i+1, p.Description, p.Path)
	}
	l.Out.Blank()
	l.Out.Tipf("Usage examples:")
	l.Out.Tipf("  gbdocs rust-docs book/ch04-00-understanding-ownership.html")
	l.Out.Tipf(`  gbdocs rust-docs save "book/ch05-01-defining-structs.html"`)
}

func (l *Launcher) open(page string) error {
	l.Out.Header("Opening Rust documentation...")

	docPath, err := l.DocPath()
	if err != nil {
		return err
	}

	target := PageURL(docPath, page)
	if path, ok := LocalPath(target); ok {
		if title, err := PageTitle(path); err == nil {
			l.Out.Infof("Page: %s", title)
		}
	}
	l.Out.Infof("Opening: %s", target)

	if err := l.Opener.Open(target); err != nil {
		code := model.ExitGeneralError
		if errors.Is(err, browser.ErrUnsupportedOS) {
			code = model.ExitUnsupportedOS
		}
		return model.WrapCLIError(code, "failed to open documentation in browser", err).
			WithHint("You can manually open: " + target)
	}

	l.Out.Successf("Documentation opened successfully!")
	l.Out.Blank()
	l.Out.Tipf("When you find an interesting page, copy its path from the URL")
	l.Out.Tipf(`Save it with: gbdocs rust-docs save "<page-path>"`)
	l.Out.Tipf("Next time, just run: gbdocs rust-docs")
	l.Out.Tipf("The bookmark file (%s) can be committed to git", l.Bookmark.Name)
	return nil
}
