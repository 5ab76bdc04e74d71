// all.go implements the "gbdocs all" command.
//
// The all command clones the reference repositories and then launches
// every documentation viewer as a separate gbdocs process in the
// background, pausing briefly between launches so browser tabs and
// servers do not race each other.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/resources"
)

// Pauses between the steps of "gbdocs all". Tests set them to zero.
var (
	clonePause  = 500 * time.Millisecond
	launchPause = time.Second
)

// executable returns the path of the running gbdocs binary.
var executable = os.Executable

// launch is one background documentation viewer.
type launch struct {
	Args        []string
	Description string
}

// allLaunches lists the viewers started by "gbdocs all", in order.
var allLaunches = []launch{
	{Args: []string{"rust-docs"}, Description: "Rust documentation"},
	{Args: []string{"pandocs"}, Description: "Pan Docs"},
	{Args: []string{"dmg01"}, Description: "DMG-01 docs"},
	{Args: []string{"gbctr"}, Description: "GB-CTR book"},
}

// NewAllCommand creates the "all" cobra command.
func NewAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Clone resources and launch every documentation viewer",
		Long: `Launch the complete documentation environment:

  1. Clone the reference repositories into resources/
  2. Open the Rust documentation
  3. Serve Pan Docs
  4. Serve the DMG-01 book
  5. Open the Game Boy Complete Technical Reference

Each viewer runs as its own background gbdocs process.

Examples:
  gbdocs all
  gbdocs all --root ~/src/my-emulator`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			return runAll(e)
		},
	}
}

// runAll clones the resources, then starts each viewer. Clone failures
// are reported but do not stop the launches; only failing to find our own
// executable is fatal.
func runAll(e *env) error {
	self, err := executable()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to locate the gbdocs executable", err)
	}
	VerboseLog("Launching viewers with %s", self)

	e.Out.Header("Launching Game Boy documentation environment")
	e.Out.Blank()

	e.Out.Infof("Step 1: Cloning resources...")
	cloneResources(e)
	time.Sleep(clonePause)

	e.Out.Blank()
	e.Out.Infof("Step 2: Launching documentation...")

	launched := 0
	for i, l := range allLaunches {
		if i > 0 {
			time.Sleep(launchPause)
		}
		args := append(childFlags(e), l.Args...)
		if err := e.Runner.Start(self, args...); err != nil {
			e.Out.Errorf("Failed to launch %s: %v", l.Description, err)
			continue
		}
		e.Out.Successf("  %s launched", l.Description)
		launched++
	}

	e.Out.Blank()
	if launched < len(allLaunches) {
		e.Out.Warnf("%d of %d viewers failed to launch", len(allLaunches)-launched, len(allLaunches))
	} else {
		e.Out.Successf("Documentation environment launched successfully!")
	}
	e.Out.Tipf("Run a single viewer with: gbdocs <pandocs|dmg01|gbctr|rust-docs>")
	return nil
}

// cloneResources runs the clone step, reporting problems as warnings.
func cloneResources(e *env) {
	if !e.Runner.Exists("git") {
		e.Out.Warnf("git is not installed, skipping clone")
		return
	}
	result, err := resources.NewCloner(e.Runner, e.Out).Clone(e.ResourcesDir(), e.Config.Resources)
	switch {
	case err != nil:
		e.Out.Warnf("Cloning external resources failed: %v", err)
	case !result.OK():
		e.Out.Warnf("Cloning external resources completed with %d failure(s)", len(result.Failed))
	default:
		e.Out.Successf("  External resources ready")
	}
}

// childFlags are the global flags passed on to child gbdocs processes.
func childFlags(e *env) []string {
	flags := []string{"--root", e.Root}
	if verbose {
		flags = append(flags, "--verbose")
	}
	return flags
}
