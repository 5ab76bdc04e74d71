// clone.go implements the "gbdocs clone" command.
//
// The clone command fetches every configured reference repository into
// the resources directory, skipping the ones already present.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/resources"
)

// NewCloneCommand creates the "clone" cobra command.
func NewCloneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clone",
		Short: "Clone the reference repositories into resources/",
		Long: `Clone every reference repository into the resources directory.

Repositories whose directory already exists are left untouched. A failed
clone does not stop the others; the command exits with a git error code
if any clone failed.

Examples:
  gbdocs clone
  gbdocs clone --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			return runClone(cmd, e)
		},
	}
}

// runClone clones the configured resources and reports the result.
func runClone(cmd *cobra.Command, e *env) error {
	if !e.Runner.Exists("git") {
		return model.NewCLIError(model.ExitToolMissing, "git is not installed").
			WithHint("Install git and make sure it is on your PATH.")
	}

	dir := e.ResourcesDir()
	VerboseLog("Resources directory: %s", dir)

	e.Out.Header("Cloning reference resources...")
	missing := resources.Missing(dir, e.Config.Resources)
	e.Out.Infof("%d of %d resources need cloning", len(missing), len(e.Config.Resources))
	result, err := resources.NewCloner(e.Runner, e.Out).Clone(dir, e.Config.Resources)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to prepare resources directory", err)
	}

	if IsJSONOutput() {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		e.Out.Blank()
		e.Out.Infof("Cloned: %d, already present: %d, failed: %d",
			len(result.Cloned), len(result.Skipped), len(result.Failed))
	}

	if !result.OK() {
		failed := make([]string, 0, len(result.Failed))
		for _, res := range e.Config.Resources {
			if _, ok := result.Failed[res.Name]; ok {
				failed = append(failed, res.Name)
			}
		}
		return model.NewCLIError(model.ExitGitError,
			fmt.Sprintf("failed to clone: %s", strings.Join(failed, ", ")))
	}

	e.Out.Successf("All resources are ready in %s", dir)
	return nil
}
