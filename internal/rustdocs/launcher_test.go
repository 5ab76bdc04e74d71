package rustdocs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gbdocs/internal/bookmark"
	"github.com/shinji-kodama/gbdocs/internal/execx/execxtest"
	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

// newTestLauncher returns a Launcher whose rustup reports a doc tree in a
// temp dir, with the opener pinned to Linux.
func newTestLauncher(t *testing.T) (*Launcher, *execxtest.Runner, *bytes.Buffer, string) {
	t.Helper()
	docs := t.TempDir()
	index := filepath.Join(docs, "index.html")
	require.NoError(t, os.WriteFile(index, []byte(`<html><head><title>Rust Documentation</title></head></html>`), 0o644))

	runner := execxtest.New("rustup")
	runner.Outputs["rustup doc --path"] = index + "\n"

	out := &bytes.Buffer{}
	loc := bookmark.NewLocation(t.TempDir(), bookmark.RustDocsName)
	l := NewLauncher(runner, bookmark.NewStore(), ui.New(out, out), loc)
	l.Opener.GOOS = "linux"
	return l, runner, out, index
}

func TestResume_NoBookmarkOpensIndex(t *testing.T) {
	l, runner, out, index := newTestLauncher(t)

	require.NoError(t, l.Resume())
	assert.Equal(t, []string{
		"rustup doc --path",
		"xdg-open file://" + filepath.ToSlash(index),
	}, runner.Lines())
	assert.Contains(t, out.String(), "Page: Rust Documentation")
	assert.NotContains(t, out.String(), "Resuming from bookmark")
}

func TestResume_FromBookmark(t *testing.T) {
	l, runner, out, index := newTestLauncher(t)
	require.NoError(t, l.Store.Save(l.Bookmark, "std/index.html"))

	require.NoError(t, l.Resume())
	assert.Equal(t, "xdg-open "+PageURL(index, "std/index.html"), runner.Lines()[1])
	assert.Contains(t, out.String(), "Resuming from bookmark: std/index.html")
}

func TestOpenPage_SavesThenOpens(t *testing.T) {
	l, runner, _, index := newTestLauncher(t)

	require.NoError(t, l.OpenPage("book/ch05-00-structs.html"))

	value, ok := l.Store.Load(l.Bookmark)
	require.True(t, ok)
	assert.Equal(t, "book/ch05-00-structs.html", value)
	assert.Equal(t, "xdg-open "+PageURL(index, "book/ch05-00-structs.html"), runner.Lines()[1])
}

func TestSave_RejectsEmpty(t *testing.T) {
	l, runner, _, _ := newTestLauncher(t)

	err := l.Save("   ")
	assert.Equal(t, model.ExitInvalidArgument, model.ExitCodeOf(err))
	_, ok := l.Store.Load(l.Bookmark)
	assert.False(t, ok)
	assert.Empty(t, runner.Calls)
}

func TestDocPath_RustupMissing(t *testing.T) {
	l, runner, _, _ := newTestLauncher(t)
	delete(runner.Tools, "rustup")

	_, err := l.DocPath()
	assert.Equal(t, model.ExitToolMissing, model.ExitCodeOf(err))
}

func TestDocPath_RustupFails(t *testing.T) {
	l, runner, _, _ := newTestLauncher(t)
	runner.Fail["rustup doc"] = errors.New("error: toolchain 'stable' is not installed")

	err := l.Resume()
	assert.Equal(t, model.ExitGeneralError, model.ExitCodeOf(err))
	assert.Len(t, runner.Calls, 1)
}

func TestOpen_UnsupportedOS(t *testing.T) {
	l, _, _, _ := newTestLauncher(t)
	l.Opener.GOOS = "plan9"

	err := l.Resume()
	assert.Equal(t, model.ExitUnsupportedOS, model.ExitCodeOf(err))
}

func TestList(t *testing.T) {
	l, runner, out, _ := newTestLauncher(t)

	l.List()
	assert.Contains(t, out.String(), "  1. The Rust Programming Language (Book) - book/")
	assert.Contains(t, out.String(), "  15. Edition Guide - edition-guide/")
	assert.Empty(t, runner.Calls)
}
