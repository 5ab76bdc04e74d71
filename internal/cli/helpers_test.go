package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/gbdocs/internal/execx"
	"github.com/shinji-kodama/gbdocs/internal/execx/execxtest"
)

// run executes the gbdocs root command with args against runner and
// returns what it wrote to stdout and stderr.
func run(t *testing.T, runner *execxtest.Runner, args ...string) (string, string, error) {
	t.Helper()

	origRunner := newRunner
	newRunner = func() execx.Runner { return runner }
	t.Cleanup(func() {
		newRunner = origRunner
		jsonOutput, verbose, rootDir = false, false, ""
	})

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// newProject returns a project root whose config selects the lsof probe,
// so tests control port availability through the fake runner.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "gbdocs.yaml"), []byte("probe: lsof\n"), 0o644))
	return root
}
