// Package execxtest provides a recording execx.Runner for tests.
package execxtest

import (
	"strings"
	"sync"

	"github.com/shinji-kodama/gbdocs/internal/execx"
)

var _ execx.Runner = (*Runner)(nil)

// Call is one recorded command.
type Call struct {
	// Kind is the Runner method used: "run", "quiet", "output" or "start".
	Kind string
	Env  map[string]string
	Name string
	Args []string
}

// Line returns the command as a single space-joined string.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner records every command instead of executing it.
//
// Tools lists the executables Exists reports as installed. Fail maps a
// command line prefix to the error returned for matching commands, and
// Outputs maps a command line prefix to what Output returns (empty when
// nothing matches).
type Runner struct {
	Tools   map[string]bool
	Fail    map[string]error
	Outputs map[string]string

	mu    sync.Mutex
	Calls []Call
}

// New returns a Runner that reports the given tools as installed.
func New(tools ...string) *Runner {
	r := &Runner{
		Tools:   make(map[string]bool),
		Fail:    make(map[string]error),
		Outputs: make(map[string]string),
	}
	for _, t := range tools {
		r.Tools[t] = true
	}
	return r
}

func (r *Runner) record(kind string, env map[string]string, name string, args []string) error {
	c := Call{Kind: kind, Env: env, Name: name, Args: append([]string(nil), args...)}
	r.mu.Lock()
	r.Calls = append(r.Calls, c)
	r.mu.Unlock()
	return r.failure(c.Line())
}

func (r *Runner) failure(line string) error {
	for prefix, err := range r.Fail {
		if strings.HasPrefix(line, prefix) {
			return err
		}
	}
	return nil
}

// Run implements execx.Runner.
func (r *Runner) Run(env map[string]string, name string, args ...string) error {
	return r.record("run", env, name, args)
}

// Quiet implements execx.Runner.
func (r *Runner) Quiet(name string, args ...string) error {
	return r.record("quiet", nil, name, args)
}

// Output implements execx.Runner.
func (r *Runner) Output(name string, args ...string) (string, error) {
	if err := r.record("output", nil, name, args); err != nil {
		return "", err
	}
	line := Call{Name: name, Args: args}.Line()
	for prefix, out := range r.Outputs {
		if strings.HasPrefix(line, prefix) {
			return out, nil
		}
	}
	return "", nil
}

// Exists implements execx.Runner.
func (r *Runner) Exists(name string) bool {
	return r.Tools[name]
}

// Start implements execx.Runner.
func (r *Runner) Start(name string, args ...string) error {
	return r.record("start", nil, name, args)
}

// Lines returns every recorded command line in order.
func (r *Runner) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		lines = append(lines, c.Line())
	}
	return lines
}
