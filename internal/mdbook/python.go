package mdbook

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// venvName is the virtual environment directory inside the book.
	venvName = "env"

	// requirementsName is the pip requirements file inside the book.
	requirementsName = "requirements.txt"

	// installMarker is touched inside the venv after a successful
	// `pip install -r requirements.txt`. Its mtime is compared against the
	// requirements file to decide whether to install again.
	installMarker = ".requirements_installed"
)

// venvBin returns the directory holding the venv's executables.
func venvBin(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts")
	}
	return filepath.Join(envDir, "bin")
}

// NeedsInstall reports whether the requirements must be (re)installed into
// the venv at envDir: true when the install marker is missing or older than
// the requirements file. Once the marker exists, a missing requirements
// file leaves nothing to compare and needs no install.
func NeedsInstall(envDir, requirements string) bool {
	marker, err := os.Stat(filepath.Join(envDir, installMarker))
	if err != nil {
		return true
	}

	req, err := os.Stat(requirements)
	if err != nil {
		return false
	}

	return req.ModTime().After(marker.ModTime())
}

// markInstalled records a successful install.
func markInstalled(envDir string) error {
	return os.WriteFile(filepath.Join(envDir, installMarker), nil, 0o644)
}

// ServeEnv returns the extra environment for running mdbook with the venv
// at envDir active: its bin directory in front of basePath, and
// VIRTUAL_ENV set.
func ServeEnv(envDir, basePath string) map[string]string {
	path := venvBin(envDir)
	if basePath != "" {
		path = strings.Join([]string{path, basePath}, string(os.PathListSeparator))
	}
	return map[string]string{
		"PATH":        path,
		"VIRTUAL_ENV": envDir,
	}
}
