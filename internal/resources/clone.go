// Package resources clones the reference repositories the documentation
// launchers read from (Pan Docs, DMG-01, GB-CTR, mooneye) into the
// project's resources/ directory.
//
// We shell out to `git` rather than using a Go git library: a plain
// `git clone` honours the user's credential helpers, proxies and SSH
// configuration without any extra wiring.
package resources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/gbdocs/internal/execx"
	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

// Result summarises a Clone run.
type Result struct {
	Cloned  []string          `json:"cloned"`
	Skipped []string          `json:"skipped"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// OK reports whether every repository is present after the run.
func (r *Result) OK() bool {
	return len(r.Failed) == 0
}

// Cloner clones reference repositories with git.
type Cloner struct {
	Runner execx.Runner
	Out    *ui.Printer
}

// NewCloner creates a Cloner.
func NewCloner(runner execx.Runner, out *ui.Printer) *Cloner {
	return &Cloner{Runner: runner, Out: out}
}

// Clone makes sure every resource exists under dir, creating dir first.
//
// A resource whose directory already exists is skipped without checking
// what is inside it. A failed clone is reported with git's stderr and the
// run moves on to the next repository; the returned Result lists every
// failure. Only failing to create dir itself is returned as an error.
func (c *Cloner) Clone(dir string, resources []model.Resource) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resources directory %s: %w", dir, err)
	}

	result := &Result{Failed: make(map[string]string)}

	for _, res := range resources {
		target := filepath.Join(dir, res.Name)

		if _, err := os.Stat(target); err == nil {
			c.Out.Infof("Directory %s already exists, skipping clone", res.Name)
			result.Skipped = append(result.Skipped, res.Name)
			continue
		}

		c.Out.Infof("Cloning %s into %s", res.URL, filepath.Join(filepath.Base(dir), res.Name))

		if _, err := c.Runner.Output("git", "clone", res.URL, target); err != nil {
			c.Out.Errorf("Failed to clone %s: %v", res.Name, err)
			result.Failed[res.Name] = err.Error()
			continue
		}

		c.Out.Successf("Successfully cloned %s", res.Name)
		result.Cloned = append(result.Cloned, res.Name)
	}

	return result, nil
}

// Missing returns the resources whose directories do not exist under dir.
func Missing(dir string, resources []model.Resource) []model.Resource {
	var missing []model.Resource
	for _, res := range resources {
		if _, err := os.Stat(filepath.Join(dir, res.Name)); err != nil {
			missing = append(missing, res)
		}
	}
	return missing
}
