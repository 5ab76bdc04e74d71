package mdbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shinji-kodama/gbdocs/internal/bookmark"
	"github.com/shinji-kodama/gbdocs/internal/execx"
	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/port"
	"github.com/shinji-kodama/gbdocs/internal/ui"
)

// Server serves mdbook sites.
type Server struct {
	Runner execx.Runner

	// Probe decides which ports are taken.
	Probe port.Probe

	Store *bookmark.Store
	Out   *ui.Printer
}

// NewServer creates a Server.
func NewServer(runner execx.Runner, probe port.Probe, store *bookmark.Store, out *ui.Printer) *Server {
	return &Server{Runner: runner, Probe: probe, Store: store, Out: out}
}

// Serve runs `mdbook serve` for site, whose Dir is relative to root, and
// blocks until the server exits.
func (s *Server) Serve(root string, site model.Site) error {
	dir := filepath.Join(root, site.Dir)

	s.Out.Header("Launching %s", site.DisplayTitle())
	s.Out.Infof("Project root: %s", root)
	s.Out.Infof("Book directory: %s", dir)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return model.NewCLIError(model.ExitResourceMissing,
			fmt.Sprintf("%s book directory not found at %s", site.Name, dir)).
			WithHint("Run 'gbdocs clone' to fetch the reference repositories.")
	}

	if !s.Runner.Exists("mdbook") {
		return model.NewCLIError(model.ExitToolMissing, "mdbook is not installed").
			WithHint("Please install mdbook: cargo install mdbook")
	}

	var env map[string]string
	if site.Python {
		if !s.Runner.Exists("cargo") {
			return model.NewCLIError(model.ExitToolMissing, "cargo is not installed").
				WithHint("Please install Rust and Cargo: https://rustup.rs")
		}

		envDir, err := s.setupPythonEnv(dir)
		if err != nil {
			return err
		}

		if err := s.buildPreprocessors(dir); err != nil {
			return err
		}

		env = ServeEnv(envDir, os.Getenv("PATH"))
	}

	p, err := s.findPort(site.StartPort)
	if err != nil {
		return err
	}

	base := fmt.Sprintf("http://localhost:%d", p)
	s.Out.Infof("Starting mdbook server on port %d...", p)
	s.Out.Successf("The book will be available at: %s", base)
	if site.Bookmark != "" {
		if page, ok := s.Store.Load(bookmark.NewLocation(root, site.Bookmark)); ok {
			s.Out.Infof("Last bookmarked page: %s", PageURL(base, page))
		}
	}
	s.Out.Tipf("The server will watch for file changes and auto-reload")
	s.Out.Blank()
	s.Out.Infof("Press Ctrl+C to stop the server")
	s.Out.Blank()

	if err := s.Runner.Run(env, "mdbook", "serve", "--port", strconv.Itoa(p), "--open", dir); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "mdbook serve failed", err)
	}
	return nil
}

// SaveBookmark records page as the last visited page of site.
func (s *Server) SaveBookmark(root string, site model.Site, page string) error {
	if site.Bookmark == "" {
		return model.NewCLIError(model.ExitInvalidArgument,
			fmt.Sprintf("site %s has no bookmark file configured", site.Name))
	}
	page = strings.TrimSpace(page)
	if page == "" {
		return model.NewCLIError(model.ExitInvalidArgument, "page must not be empty")
	}
	if err := s.Store.Save(bookmark.NewLocation(root, site.Bookmark), page); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to save bookmark", err)
	}
	s.Out.Successf("Bookmarked: %s", page)
	return nil
}

// PageURL joins a bookmarked page onto the server's base URL.
func PageURL(base, page string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(page, "/")
}

// findPort scans upward from start, reporting each busy port.
func (s *Server) findPort(start int) (int, error) {
	finder := port.Finder{
		Probe: s.Probe,
		OnBusy: func(p int) {
			s.Out.Warnf("Port %d is in use, trying next port...", p)
		},
	}

	p, err := finder.Find(start)
	if err != nil {
		var noPort *port.NoAvailablePortError
		if errors.As(err, &noPort) {
			return 0, model.WrapCLIError(model.ExitPortAllocationFailed, "no available ports found", err)
		}
		return 0, model.WrapCLIError(model.ExitInvalidArgument, "invalid start port", err)
	}
	return p, nil
}

// setupPythonEnv creates the book's virtual environment if needed and
// installs its requirements when they changed. It returns the venv path.
func (s *Server) setupPythonEnv(dir string) (string, error) {
	envDir := filepath.Join(dir, venvName)

	if _, err := os.Stat(envDir); err != nil {
		if !s.Runner.Exists("python3") {
			return "", model.NewCLIError(model.ExitToolMissing, "python3 is not installed").
				WithHint("Pan Docs needs Python 3 for its mdbook preprocessors.")
		}
		s.Out.Infof("Creating Python virtual environment...")
		if err := s.Runner.Run(nil, "python3", "-m", "venv", envDir); err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to create Python virtual environment", err)
		}
	}

	requirements := filepath.Join(dir, requirementsName)
	if !NeedsInstall(envDir, requirements) {
		s.Out.Successf("Python dependencies already up to date")
		return envDir, nil
	}

	if _, err := os.Stat(requirements); err != nil {
		s.Out.Warnf("%s not found in %s, skipping Python dependency install", requirementsName, dir)
		return envDir, nil
	}

	s.Out.Infof("Installing Python dependencies...")
	pip := filepath.Join(venvBin(envDir), "pip")
	if err := s.Runner.Run(nil, pip, "install", "-r", requirements); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to install Python requirements", err)
	}
	if err := markInstalled(envDir); err != nil {
		return "", fmt.Errorf("failed to record Python install: %w", err)
	}
	return envDir, nil
}

// buildPreprocessors builds the book's Rust mdbook preprocessors.
func (s *Server) buildPreprocessors(dir string) error {
	s.Out.Infof("Building Rust preprocessors...")
	manifest := filepath.Join(dir, "Cargo.toml")
	if err := s.Runner.Run(nil, "cargo", "build", "--release", "--locked", "--manifest-path", manifest); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to build Rust preprocessors", err)
	}
	return nil
}
