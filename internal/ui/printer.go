// Package ui prints the launcher's progress messages.
//
// Messages are styled with lipgloss. Each Printer owns a renderer bound to
// its output writer, so colours are only emitted when that writer is a
// terminal that supports them; pipes, files and test buffers get plain text.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colour palette.
var (
	accent  = lipgloss.Color("#FFB3BA")
	success = lipgloss.Color("#A8E6CF")
	warning = lipgloss.Color("#FFD580")
	muted   = lipgloss.Color("#6B7280")
)

// Printer writes styled lines to Out (progress) and Err (warnings, errors).
type Printer struct {
	Out io.Writer
	Err io.Writer

	header  lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	tip     lipgloss.Style
	errTips lipgloss.Style
}

// New returns a Printer for the given writers.
func New(out, errOut io.Writer) *Printer {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)

	return &Printer{
		Out:     out,
		Err:     errOut,
		header:  outR.NewStyle().Foreground(accent).Bold(true),
		ok:      outR.NewStyle().Foreground(success),
		warn:    errR.NewStyle().Foreground(warning),
		fail:    errR.NewStyle().Foreground(accent).Bold(true),
		tip:     outR.NewStyle().Foreground(muted),
		errTips: errR.NewStyle().Foreground(muted),
	}
}

// Discard returns a Printer that drops everything.
func Discard() *Printer {
	return New(io.Discard, io.Discard)
}

// Header prints a bold title line.
func (p *Printer) Header(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, p.header.Render(fmt.Sprintf(format, args...)))
}

// Infof prints an unstyled progress line.
func (p *Printer) Infof(format string, args ...interface{}) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Successf prints a completed step.
func (p *Printer) Successf(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, p.ok.Render(fmt.Sprintf(format, args...)))
}

// Tipf prints a dimmed usage hint.
func (p *Printer) Tipf(format string, args ...interface{}) {
	fmt.Fprintln(p.Out, p.tip.Render(fmt.Sprintf(format, args...)))
}

// Warnf prints a non-fatal problem to Err.
func (p *Printer) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(p.Err, p.warn.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// Errorf prints a failure to Err.
func (p *Printer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.Err, p.fail.Render("Error: "+fmt.Sprintf(format, args...)))
}

// Hintf prints a dimmed follow-up to an error on Err.
func (p *Printer) Hintf(format string, args ...interface{}) {
	fmt.Fprintln(p.Err, p.errTips.Render(fmt.Sprintf(format, args...)))
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.Out)
}
