// Command east is the command-line front end to this module's text and
// JSON codecs, the comparison engine, and the
// type-descriptor self-description that lets all three of them operate
// without any east-specific flag for "what shape is this".
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/east/internal/config"
)

func main() {
	env := config.LoadEnv()
	root := newRootCmd(env)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "east:", err)
		os.Exit(1)
	}
}

func newRootCmd(env *config.EnvDefaults) *cobra.Command {
	root := &cobra.Command{
		Use:           "east",
		Short:         "Inspect, convert, and compare east-encoded values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPrintCmd(),
		newParseCmd(),
		newJSONCmd(),
		newCmpCmd(),
		newFmtCmd(env),
	)
	return root
}
