// port.go implements the "gbdocs port" command.
//
// The port command prints the first free port at or above --start using
// the configured probe. It is handy for scripts that want to start their
// own server next to the documentation sites.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/gbdocs/internal/model"
	"github.com/shinji-kodama/gbdocs/internal/port"
)

// portFlags holds the flag values for the port command.
type portFlags struct {
	start int
	max   int
}

// portResult is the JSON form of the port command's output.
type portResult struct {
	Port    int   `json:"port"`
	Skipped []int `json:"skipped"`
}

// NewPortCommand creates the "port" cobra command.
func NewPortCommand() *cobra.Command {
	flags := &portFlags{}

	cmd := &cobra.Command{
		Use:   "port",
		Short: "Print the first free port",
		Long: `Print the first port at or above --start with no listener bound to it.

Ports are checked in ascending order up to --max. The answer is a hint,
not a reservation: another process may take the port before you do.

Examples:
  gbdocs port
  gbdocs port --start 8080 --max 8090
  gbdocs port --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			return runPort(cmd, e, port.Finder{Probe: e.probe(cmd.Context())}, flags)
		},
	}

	cmd.Flags().IntVar(&flags.start, "start", 3000, "First port to check")
	cmd.Flags().IntVar(&flags.max, "max", port.MaxPort, "Last port to check")

	return cmd
}

// runPort scans [flags.start, flags.max] with finder and prints the result.
func runPort(cmd *cobra.Command, e *env, finder port.Finder, flags *portFlags) error {
	result := portResult{Skipped: []int{}}
	finder.OnBusy = func(p int) {
		VerboseLog("Port %d is in use", p)
		result.Skipped = append(result.Skipped, p)
	}

	found, err := finder.Scan(flags.start, flags.max)
	if err != nil {
		var invalid *port.InvalidRangeError
		if errors.As(err, &invalid) {
			return model.WrapCLIError(model.ExitInvalidArgument, "invalid port range", err)
		}
		return model.WrapCLIError(model.ExitPortAllocationFailed, "no available ports found", err)
	}
	result.Port = found

	if IsJSONOutput() {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), found)
	return nil
}
