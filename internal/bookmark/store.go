// Package bookmark persists a single "where I left off" value per document.
//
// Each bookmark lives in its own small text file in the project root, for
// example .rust_docs_bookmark or .gb_ctr_bookmark. The file holds the raw
// value with no schema and no escaping, so it can be edited by hand or
// committed to git. Writing replaces the previous value entirely.
//
// A missing, empty or unreadable bookmark is a normal first-run state and is
// reported as "no bookmark", never as an error.
package bookmark

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Well-known bookmark file names. Each kind of bookmark gets its own name so
// a page path and a page number never overwrite each other.
const (
	RustDocsName = ".rust_docs_bookmark"
	GBCTRName    = ".gb_ctr_bookmark"
	DMG01Name    = ".dmg01_bookmark"
	PandocsName  = ".pandocs_bookmark"
)

// Location identifies one bookmark's backing file: a project root plus a
// fixed, store-specific file name.
type Location struct {
	Root string
	Name string
}

// NewLocation returns the Location for name inside root.
func NewLocation(root, name string) Location {
	return Location{Root: root, Name: name}
}

// Path returns the backing file path.
func (l Location) Path() string {
	return filepath.Join(l.Root, l.Name)
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return l.Path()
}

// Store reads and writes bookmarks. The zero value is ready to use.
type Store struct{}

// NewStore returns a Store.
func NewStore() *Store {
	return &Store{}
}

// Save replaces the bookmark at loc with value, written exactly as given.
//
// The value goes to a temporary file in the same directory which is then
// renamed over the bookmark, so a concurrent Load sees either the old or the
// new value in full. The parent directory is not created; a missing project
// root is reported as an error like any other I/O failure.
func (s *Store) Save(loc Location, value string) error {
	path := loc.Path()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to save bookmark %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write bookmark %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write bookmark %s: %w", path, err)
	}

	// CreateTemp uses 0600; bookmarks are meant to be shared through git.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save bookmark %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save bookmark %s: %w", path, err)
	}
	return nil
}

// Load returns the bookmark at loc with surrounding whitespace removed.
// ok is false when there is no file, the file cannot be read, or its
// content is blank.
func (s *Store) Load(loc Location) (value string, ok bool) {
	data, err := os.ReadFile(loc.Path())
	if err != nil {
		return "", false
	}

	value = strings.TrimSpace(string(data))
	if value == "" {
		return "", false
	}
	return value, true
}

// ParsePage interprets a loaded bookmark as a page number. Anything that is
// not a positive decimal integer counts as no bookmark, so a hand-edited or
// corrupted file never stops the launcher.
//
//	page, ok := bookmark.ParsePage(store.Load(loc))
func ParsePage(value string, ok bool) (int, bool) {
	if !ok {
		return 0, false
	}
	page, err := strconv.Atoi(value)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}
