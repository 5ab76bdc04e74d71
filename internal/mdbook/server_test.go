package mdbook

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
	"github.com/shinji-kodama/gbdocs/internal/port"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

func boundPorts(ports ...int) port.Probe {
	bound := make(map[int]bool)
	for _, p := range ports {
		bound[p] = true
	}
	return port.ProbeFunc(func(p int) bool { return bound[p] })
}

func dmg01Site() model.Site {
	return model.Site{
		Name:      "dmg01",
		Title:     "DMG-01",
		Dir:       filepath.Join("resources", "DMG-01", "book"),
		StartPort: 3100,
		Bookmark:  bookmark.DMG01Name,
	}
}

func pandocsSite() model.Site {
	return model.Site{
		Name:      "pandocs",
		Title:     "Pan Docs",
		Dir:       filepath.Join("resources", "pandocs"),
		StartPort: 3000,
		Python:    true,
		Bookmark:  bookmark.PandocsName,
	}
}

func makeBook(t *testing.T, root string, site model.Site) string {
	t.Helper()
	dir := filepath.Join(root, site.Dir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestServe_MissingBookDir(t *testing.T) {
	runner := execxtest.New("mdbook")
	s := NewServer(runner, boundPorts(), bookmark.NewStore(), ui.Discard())

	err := s.Serve(t.TempDir(), dmg01Site())
	require.Error(t, err)
	assert.Equal(t, model.ExitResourceMissing, model.ExitCodeOf(err))
	assert.Empty(t, runner.Calls)
}

func TestServe_MdbookMissing(t *testing.T) {
	root := t.TempDir()
	makeBook(t, root, dmg01Site())
	runner := execxtest.New()
	s := NewServer(runner, boundPorts(), bookmark.NewStore(), ui.Discard())

	err := s.Serve(root, dmg01Site())
	require.Error(t, err)
	assert.Equal(t, model.ExitToolMissing, model.ExitCodeOf(err))

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Contains(t, cliErr.Hint, "cargo install mdbook")
}

func TestServe_SkipsBusyPorts(t *testing.T) {
	root := t.TempDir()
	dir := makeBook(t, root, dmg01Site())
	runner := execxtest.New("mdbook")
	var out, errOut bytes.Buffer
	s := NewServer(runner, boundPorts(3100, 3101), bookmark.NewStore(), ui.New(&out, &errOut))

	require.NoError(t, s.Serve(root, dmg01Site()))

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "mdbook serve --port 3102 --open "+dir, runner.Calls[0].Line())
	assert.Nil(t, runner.Calls[0].Env)

	assert.Contains(t, errOut.String(), "Port 3100 is in use, trying next port...")
	assert.Contains(t, errOut.String(), "Port 3101 is in use, trying next port...")
	assert.Contains(t, out.String(), "http://localhost:3102")
}

func TestServe_NoFreePort(t *testing.T) {
	root := t.TempDir()
	makeBook(t, root, dmg01Site())
	runner := execxtest.New("mdbook")
	allBound := port.ProbeFunc(func(int) bool { return true })
	s := NewServer(runner, allBound, bookmark.NewStore(), ui.Discard())

	site := dmg01Site()
	site.StartPort = 65530
	err := s.Serve(root, site)
	require.Error(t, err)
	assert.Equal(t, model.ExitPortAllocationFailed, model.ExitCodeOf(err))

	var noPort *port.NoAvailablePortError
	assert.True(t, errors.As(err, &noPort))
	assert.Empty(t, runner.Calls)
}

func TestServe_PrintsBookmarkedPage(t *testing.T) {
	root := t.TempDir()
	makeBook(t, root, dmg01Site())
	store := bookmark.NewStore()
	require.NoError(t, store.Save(bookmark.NewLocation(root, bookmark.DMG01Name), "cpu/registers.html"))

	var out bytes.Buffer
	s := NewServer(execxtest.New("mdbook"), boundPorts(), store, ui.New(&out, &out))
	require.NoError(t, s.Serve(root, dmg01Site()))

	assert.Contains(t, out.String(), "Last bookmarked page: http://localhost:3100/cpu/registers.html")
}

func TestServe_PythonSiteSetsUpVenv(t *testing.T) {
	root := t.TempDir()
	dir := makeBook(t, root, pandocsSite())
	require.NoError(t, os.WriteFile(filepath.Join(dir, requirementsName), []byte("mistune\n"), 0o644))

	runner := execxtest.New("mdbook", "cargo", "python3")
	s := NewServer(runner, boundPorts(), bookmark.NewStore(), ui.Discard())

	// The fake never creates the venv, so make it ourselves for the marker.
	envDir := filepath.Join(dir, venvName)
	require.NoError(t, os.Mkdir(envDir, 0o755))

	require.NoError(t, s.Serve(root, pandocsSite()))

	assert.Equal(t, []string{
		filepath.Join(venvBin(envDir), "pip") + " install -r " + filepath.Join(dir, requirementsName),
		"cargo build --release --locked --manifest-path " + filepath.Join(dir, "Cargo.toml"),
		"mdbook serve --port 3000 --open " + dir,
	}, runner.Lines())

	serve := runner.Calls[len(runner.Calls)-1]
	assert.Equal(t, envDir, serve.Env["VIRTUAL_ENV"])
	assert.False(t, NeedsInstall(envDir, filepath.Join(dir, requirementsName)))
}

func TestServe_PythonSiteCreatesVenv(t *testing.T) {
	root := t.TempDir()
	dir := makeBook(t, root, pandocsSite())

	runner := execxtest.New("mdbook", "cargo", "python3")
	s := NewServer(runner, boundPorts(), bookmark.NewStore(), ui.Discard())
	require.NoError(t, s.Serve(root, pandocsSite()))

	lines := runner.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "python3 -m venv "+filepath.Join(dir, venvName), lines[0])
}

func TestServe_PythonSiteWithoutRequirements(t *testing.T) {
	root := t.TempDir()
	dir := makeBook(t, root, pandocsSite())
	envDir := filepath.Join(dir, venvName)
	require.NoError(t, os.Mkdir(envDir, 0o755))

	runner := execxtest.New("mdbook", "cargo", "python3")
	var errOut bytes.Buffer
	s := NewServer(runner, boundPorts(), bookmark.NewStore(), ui.New(&bytes.Buffer{}, &errOut))
	require.NoError(t, s.Serve(root, pandocsSite()))

	assert.Equal(t, []string{
		"cargo build --release --locked --manifest-path " + filepath.Join(dir, "Cargo.toml"),
		"mdbook serve --port 3000 --open " + dir,
	}, runner.Lines())
	assert.Contains(t, errOut.String(), "requirements.txt not found")
	assert.True(t, NeedsInstall(envDir, filepath.Join(dir, requirementsName)))
}

func TestServe_PythonSiteNeedsCargo(t *testing.T) {
	root := t.TempDir()
	makeBook(t, root, pandocsSite())
	runner := execxtest.New("mdbook", "python3")
	s := NewServer(runner, boundPorts(), bookmark.NewStore(), ui.Discard())

	err := s.Serve(root, pandocsSite())
	assert.Equal(t, model.ExitToolMissing, model.ExitCodeOf(err))
	assert.Empty(t, runner.Calls)
}

func TestServe_PreprocessorBuildFails(t *testing.T) {
	root := t.TempDir()
	dir := makeBook(t, root, pandocsSite())
	require.NoError(t, os.Mkdir(filepath.Join(dir, venvName), 0o755))

	runner := execxtest.New("mdbook", "cargo", "python3")
	runner.Fail["cargo build"] = errors.New("exit status 101")
	s := NewServer(runner, boundPorts(), bookmark.NewStore(), ui.Discard())

	err := s.Serve(root, pandocsSite())
	require.Error(t, err)
	assert.Equal(t, model.ExitGeneralError, model.ExitCodeOf(err))
	assert.NotContains(t, runner.Lines(), "mdbook serve --port 3000 --open "+dir)
}

func TestSaveBookmark(t *testing.T) {
	root := t.TempDir()
	store := bookmark.NewStore()
	s := NewServer(execxtest.New(), boundPorts(), store, ui.Discard())

	require.NoError(t, s.SaveBookmark(root, pandocsSite(), " Timer_and_Divider_Registers.html\n"))

	page, ok := store.Load(bookmark.NewLocation(root, bookmark.PandocsName))
	require.True(t, ok)
	assert.Equal(t, "Timer_and_Divider_Registers.html", page)
}

func TestSaveBookmark_Rejects(t *testing.T) {
	s := NewServer(execxtest.New(), boundPorts(), bookmark.NewStore(), ui.Discard())

	err := s.SaveBookmark(t.TempDir(), pandocsSite(), "  ")
	assert.Equal(t, model.ExitInvalidArgument, model.ExitCodeOf(err))

	site := pandocsSite()
	site.Bookmark = ""
	err = s.SaveBookmark(t.TempDir(), site, "index.html")
	assert.Equal(t, model.ExitInvalidArgument, model.ExitCodeOf(err))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/a.html", PageURL("http://localhost:3000", "a.html"))
	assert.Equal(t, "http://localhost:3000/a.html", PageURL("http://localhost:3000/", "/a.html"))
}
