// Package execx runs the external tools the launcher drives: git, mdbook,
// cargo, pip, just, rustup, lsof and the OS URL opener.
//
// Everything above this package talks to a Runner, so the orchestration can
// be tested with a fake that records commands instead of spawning them.
// ShellRunner is the real implementation, built on magefile's sh helpers.
//
// Commands never change the working directory. Callers pass absolute paths
// to the tools instead (mdbook serve <dir>, cargo --manifest-path, ...).
package execx

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/magefile/mage/sh"
)

// Runner is the capability to run external commands.
type Runner interface {
	// Run executes name with args, streaming its output to the terminal,
	// and waits for it to exit. env entries are added to the inherited
	// environment. A non-zero exit status is returned as an error.
	Run(env map[string]string, name string, args ...string) error

	// Quiet is Run with all output discarded and no extra environment.
	Quiet(name string, args ...string) error

	// Output runs name and returns its stdout with the trailing newline
	// removed. On failure the error includes whatever the command wrote
	// to stderr.
	Output(name string, args ...string) (string, error)

	// Exists reports whether name resolves to an executable on PATH.
	Exists(name string) bool

	// Start launches name in the background and returns without waiting.
	Start(name string, args ...string) error
}

// ShellRunner implements Runner with github.com/magefile/mage/sh.
//
// sh expands $VAR references in the command and its arguments. Paths and
// URLs reach us verbatim from the user, so every value containing '$' is
// routed through literal before sh sees it.
type ShellRunner struct {
	// Stdout and Stderr receive streamed output from Run. Nil means the
	// process's own stdout and stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner returns a ShellRunner writing to os.Stdout and os.Stderr.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements Runner.
func (r *ShellRunner) Run(env map[string]string, name string, args ...string) error {
	env, name, args = literal(env, name, args)
	_, err := sh.Exec(env, r.stdout(), r.stderr(), name, args...)
	return err
}

// Quiet implements Runner.
func (r *ShellRunner) Quiet(name string, args ...string) error {
	env, name, args := literal(nil, name, args)
	_, err := sh.Exec(env, io.Discard, io.Discard, name, args...)
	return err
}

// Output implements Runner.
//
// Stdout and stderr are captured separately so stderr can be folded into
// the error message while stdout is returned on success.
func (r *ShellRunner) Output(name string, args ...string) (string, error) {
	var stdout, stderr strings.Builder
	env, shName, shArgs := literal(nil, name, args)
	_, err := sh.Exec(env, &stdout, &stderr, shName, shArgs...)
	if err != nil {
		message := fmt.Sprintf("%s %s failed", name, strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", &CommandError{Message: message, Status: sh.ExitStatus(err), Err: err}
	}
	return strings.TrimSuffix(stdout.String(), "\n"), nil
}

// Exists implements Runner using a PATH lookup.
func (r *ShellRunner) Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Start implements Runner. The child inherits stdout and stderr and is
// left running when the launcher exits.
func (r *ShellRunner) Start(name string, args ...string) error {
	// #nosec G204 -- commands are built internally, not from user input
	cmd := exec.Command(name, args...)
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	// Reap the child in the background so it does not linger as a zombie
	// while the launcher is still alive.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (r *ShellRunner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *ShellRunner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// literalPrefix names the environment entries literal adds.
const literalPrefix = "GBDOCS_LITERAL_"

// literal protects name and args from sh's $VAR expansion. Each value
// containing '$' is stored in a copy of env and replaced by a
// ${GBDOCS_LITERAL_<n>} reference, which sh expands back to the exact
// original text. Values without '$' and env itself are left untouched.
func literal(env map[string]string, name string, args []string) (map[string]string, string, []string) {
	var merged map[string]string
	n := 0
	protect := func(s string) string {
		if !strings.Contains(s, "$") {
			return s
		}
		if merged == nil {
			merged = make(map[string]string, len(env)+1)
			for k, v := range env {
				merged[k] = v
			}
		}
		key := fmt.Sprintf("%s%d", literalPrefix, n)
		n++
		merged[key] = s
		return "${" + key + "}"
	}

	name = protect(name)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = protect(a)
	}
	if merged == nil {
		merged = env
	}
	return merged, name, out
}

// CommandError is returned by Output when the command fails.
type CommandError struct {
	Message string
	// Status is the process exit status, or 1 when the command did not run.
	Status int
	Err    error
}

func (e *CommandError) Error() string { return e.Message }

func (e *CommandError) Unwrap() error { return e.Err }

// ExitStatus lets sh.ExitStatus see through the wrapper.
func (e *CommandError) ExitStatus() int { return e.Status }
