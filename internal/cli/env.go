package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/bookmark"
	"github.com/shinji-kodama/gbdocs/internal/config"
	"github.com/shinji-kodama/gbdocs/internal/docker"
	"github.com/shinji-kodama/gbdocs/internal/execx"
	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/port"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

// newRunner creates the runner for external tools. Tests replace it.
var newRunner = func() execx.Runner {
	return execx.NewShellRunner()
}

// loadDockerProbe queries Docker for published ports. Tests replace it.
var loadDockerProbe = func(ctx context.Context) (port.Probe, error) {
	c, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	if err := c.Ping(ctx); err != nil {
		return nil, err
	}
	p, err := docker.LoadProbe(ctx, c)
	if err != nil {
		return nil, err
	}
	return containerProbe{Probe: p, log: VerboseLog}, nil
}

// containerProbe names the container holding each port it reports as
// bound.
type containerProbe struct {
	*docker.Probe
	log func(format string, args ...interface{})
}

func (p containerProbe) IsBound(port int) bool {
	if !p.Probe.IsBound(port) {
		return false
	}
	if name, ok := p.Owner(port); ok {
		p.log("Port %d is published by container %s", port, name)
	}
	return true
}

// env is what every subcommand needs: the project root, its
// configuration, and the shared collaborators.
type env struct {
	Root   string
	Config *config.Config
	Runner execx.Runner
	Store  *bookmark.Store
	Out    *ui.Printer
}

// newEnv resolves the project root and loads its configuration.
func newEnv(cmd *cobra.Command) (*env, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	VerboseLog("Project root: %s", root)

	cfg, err := config.Load(root)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidArgument, "failed to load configuration", err)
	}
	if cfg.Source != "" {
		VerboseLog("Loaded configuration from %s", cfg.Source)
	} else {
		VerboseLog("No configuration file found, using defaults")
	}

	// With --json, stdout carries only the JSON result.
	out := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if jsonOutput {
		out = ui.New(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	}

	return &env{
		Root:   root,
		Config: cfg,
		Runner: newRunner(),
		Store:  bookmark.NewStore(),
		Out:    out,
	}, nil
}

// projectRoot returns --root, or the working directory, as an absolute
// path.
func projectRoot() (string, error) {
	root := rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", model.WrapCLIError(model.ExitInvalidArgument, "invalid project root", err)
	}
	return abs, nil
}

// probe returns the port probe selected by the configuration. The Docker
// probe is always combined with a bind attempt and falls back to it when
// the daemon cannot be reached.
func (e *env) probe(ctx context.Context) port.Probe {
	listen := port.ListenProbe{}

	switch e.Config.Probe {
	case config.ProbeLsof:
		return port.LsofProbe{Runner: e.Runner}

	case config.ProbeDocker:
		dp, err := loadDockerProbe(ctx)
		if err != nil {
			VerboseLog("Docker probe unavailable, checking ports by binding only: %v", err)
			return listen
		}
		return port.AnyProbe(dp, listen)

	default:
		return listen
	}
}

// ResourcesDir returns the absolute resources directory.
func (e *env) ResourcesDir() string {
	return filepath.Join(e.Root, e.Config.ResourcesDir)
}

// bookmarkLocation returns where the bookmark file name lives.
func (e *env) bookmarkLocation(name string) bookmark.Location {
	return bookmark.NewLocation(e.Root, name)
}
