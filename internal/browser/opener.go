// Package browser hands URLs to the operating system's preferred handler.
//
// There is one branch per supported OS: `open` on macOS (optionally with
// -a <App> to pick a specific browser), `xdg-open` on Linux and
// `cmd /C start` on Windows. Commands go through an execx.Runner.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shinji-kodama/gbdocs/internal/execx"
)

// ErrUnsupportedOS is returned when there is no known opener for GOOS.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Opener opens URLs with the OS handler.
type Opener struct {
	Runner execx.Runner

	// GOOS selects the dispatch branch. Empty means runtime.GOOS.
	GOOS string

	// App names the application to use on macOS ("Google Chrome").
	// It is ignored on other systems, where the desktop default is used.
	App string
}

// NewOpener returns an Opener for the running OS.
func NewOpener(runner execx.Runner, app string) *Opener {
	return &Opener{Runner: runner, GOOS: runtime.GOOS, App: app}
}

// Command returns the command line used to open target, or
// ErrUnsupportedOS.
func (o *Opener) Command(target string) (string, []string, error) {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	switch goos {
	case "darwin":
		if o.App != "" {
			return "open", []string{"-a", o.App, target}, nil
		}
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "cmd", []string{"/C", "start", target}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}
}

// Open opens target and waits for the opener command to return.
func (o *Opener) Open(target string) error {
	name, args, err := o.Command(target)
	if err != nil {
		return err
	}
	if err := o.Runner.Run(nil, name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}

// FileURL returns a file:// URL for path, made absolute first.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if !strings.HasPrefix(u.Path, "/") {
		// Windows drive paths: file:///C:/...
		u.Path = "/" + u.Path
	}
	return u.String()
}

// WithPage appends a #page=N fragment, which browser PDF viewers use to
// jump straight to a page.
func WithPage(target string, page int) string {
	if page < 1 {
		return target
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	return fmt.Sprintf("%s#page=%d", target, page)
}
