package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/east/compare"
	"github.com/oxhq/east/internal/config"
	"github.com/oxhq/east/text"
)

// newCmpCmd compares two text-encoded values of the same type, printing
// -1, 0, or 1 the way Unix cmp/diff exit-code conventions do, but to
// stdout since the ordering (not just equality) is the interesting result.
func newCmpCmd() *cobra.Command {
	var tf config.TypeFlags

	cmd := &cobra.Command{
		Use:   "cmp <a.east> <b.east>",
		Short: "Compare two text-encoded values of the same type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.Resolve()
			if err != nil {
				return err
			}
			ops, err := compare.Compile(t)
			if err != nil {
				return err
			}
			aData, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			bData, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			a, perr := text.Parse(string(aData), t)
			if perr != nil {
				return perr
			}
			b, perr := text.Parse(string(bData), t)
			if perr != nil {
				return perr
			}
			result, err := ops.Compare(a, b)
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}
	config.BindTypeFlags(cmd.Flags(), &tf)
	return cmd
}
