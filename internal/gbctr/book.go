// Package gbctr builds and opens the Game Boy Complete Technical Reference,
// a typst book that compiles to a single PDF.
//
// The reader's position is a page number kept in a bookmark file in the
// project root. Opening the PDF appends #page=N to its file URL, which
// browser PDF viewers honour.
package gbctr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/shinji-kodama/gbdocs/internal/bookmark"
	"github.com/shinji-kodama/gbdocs/internal/browser"
	"github.com/shinji-kodama/gbdocs/internal/config"
	"github.com/shinji-kodama/gbdocs/internal/execx"
	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

// buildConfig is the intermediate file the gb-ctr justfile generates.
const buildConfig = "config.json"

func init() {
	// Keep pdfcpu from writing its config directory under the user's home.
	api.DisableConfigDir()
}

// Book is the GB-CTR checkout at Root/Config.Dir.
type Book struct {
	Runner execx.Runner
	Opener *browser.Opener
	Store  *bookmark.Store
	Out    *ui.Printer

	Root   string
	Config config.GBCTRConfig

	// PageCount reports the number of pages in the PDF at path. Nil means
	// CountPages.
	PageCount func(path string) (int, error)
}

// NewBook returns a Book for the project at root.
func NewBook(runner execx.Runner, store *bookmark.Store, out *ui.Printer, root string, cfg config.GBCTRConfig) *Book {
	return &Book{
		Runner: runner,
		Opener: browser.NewOpener(runner, cfg.App),
		Store:  store,
		Out:    out,
		Root:   root,
		Config: cfg,
	}
}

// Dir returns the absolute book directory.
func (b *Book) Dir() string {
	return filepath.Join(b.Root, b.Config.Dir)
}

// PDF returns the path of the built book.
func (b *Book) PDF() string {
	return filepath.Join(b.Dir(), b.Config.PDF)
}

func (b *Book) location() bookmark.Location {
	return bookmark.NewLocation(b.Root, b.Config.Bookmark)
}

func (b *Book) checkDir() error {
	if info, err := os.Stat(b.Dir()); err != nil || !info.IsDir() {
		return model.NewCLIError(model.ExitResourceMissing,
			fmt.Sprintf("GB-CTR directory not found at %s", b.Dir())).
			WithHint("Run 'gbdocs clone' to fetch the reference repositories.")
	}
	return nil
}

// Build runs the book's `just build` recipe.
func (b *Book) Build() error {
	b.Out.Header("Building Game Boy Complete Technical Reference...")
	if err := b.checkDir(); err != nil {
		return err
	}
	if !b.Runner.Exists("just") {
		return model.NewCLIError(model.ExitToolMissing, "just is not installed").
			WithHint("You can install it with: brew install just")
	}

	dir := b.Dir()
	err := b.Runner.Run(nil, "just",
		"--justfile", filepath.Join(dir, "justfile"),
		"--working-directory", dir,
		"build")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to build book", err).
			WithHint("The build also needs typst: brew install typst")
	}

	b.Out.Successf("Book built successfully!")
	return nil
}

// Open opens the PDF in the configured browser, at the bookmarked page when
// one is saved and lies within the document.
func (b *Book) Open() error {
	if err := b.checkDir(); err != nil {
		return err
	}
	pdf := b.PDF()
	if _, err := os.Stat(pdf); err != nil {
		return model.NewCLIError(model.ExitResourceMissing, fmt.Sprintf("PDF not found at %s", pdf)).
			WithHint("Run 'gbdocs gbctr build' first to build the book.")
	}

	target := browser.FileURL(pdf)
	if page, ok := b.ResumePage(); ok {
		b.Out.Infof("Resuming from bookmarked page: %d", page)
		target = browser.WithPage(target, page)
	}

	b.Out.Infof("Opening Game Boy Complete Technical Reference in browser...")
	if err := b.Opener.Open(target); err != nil {
		code := model.ExitGeneralError
		if errors.Is(err, browser.ErrUnsupportedOS) {
			code = model.ExitUnsupportedOS
		}
		return model.WrapCLIError(code, "failed to open PDF in browser", err).
			WithHint("You can manually open: " + target)
	}

	b.Out.Successf("Book opened successfully in browser!")
	b.Out.Blank()
	b.Out.Tipf("Use 'gbdocs gbctr save <N>' to bookmark page N")
	b.Out.Tipf("In Chrome's PDF viewer, press Ctrl+G to go to a page")
	b.Out.Tipf("The bookmark file (%s) can be committed to git", b.Config.Bookmark)
	return nil
}

// ResumePage returns the bookmarked page if there is one and the PDF has at
// least that many pages. A PDF that cannot be read keeps the bookmark.
func (b *Book) ResumePage() (int, bool) {
	page, ok := bookmark.ParsePage(b.Store.Load(b.location()))
	if !ok {
		return 0, false
	}

	count, err := b.pageCount(b.PDF())
	if err != nil {
		return page, true
	}
	if page > count {
		b.Out.Warnf("Bookmarked page %d is past the end of the book (%d pages), ignoring it", page, count)
		return 0, false
	}
	return page, true
}

func (b *Book) pageCount(path string) (int, error) {
	if b.PageCount != nil {
		return b.PageCount(path)
	}
	return CountPages(path)
}

// Save bookmarks page, which must be positive.
func (b *Book) Save(page int) error {
	if page < 1 {
		return model.NewCLIError(model.ExitInvalidArgument, fmt.Sprintf("invalid page number: %d", page))
	}
	if err := b.Store.Save(b.location(), strconv.Itoa(page)); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to save bookmark", err)
	}
	b.Out.Successf("Bookmarked page: %d", page)
	return nil
}

// Clean removes the built PDF and the generated build config. Files that
// are already gone are skipped.
func (b *Book) Clean() error {
	b.Out.Header("Cleaning build artifacts...")
	if err := b.checkDir(); err != nil {
		return err
	}

	for _, name := range []string{b.Config.PDF, buildConfig} {
		err := os.Remove(filepath.Join(b.Dir(), name))
		switch {
		case err == nil:
			b.Out.Infof("Removed: %s", name)
		case errors.Is(err, os.ErrNotExist):
		default:
			b.Out.Warnf("Failed to remove %s: %v", name, err)
		}
	}

	b.Out.Successf("Clean completed!")
	return nil
}

// CountPages returns the number of pages in the PDF at path.
func CountPages(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read page count of %s: %w", path, err)
	}
	return n, nil
}
