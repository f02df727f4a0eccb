package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/east/internal/config"
	"github.com/oxhq/east/internal/util"
	"github.com/oxhq/east/text"
)

// newFmtCmd checks (or restores) re-print idempotence over a set of
// doublestar-glob-matched .east text files: each file is parsed then
// re-printed, and any drift is either diffed, written back, or reported as
// a failing file, per --diff/--write.
func newFmtCmd(env *config.EnvDefaults) *cobra.Command {
	var tf config.TypeFlags
	var showDiff bool
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <glob>...",
		Short: "Check or restore re-print idempotence over glob-matched .east files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.Resolve()
			if err != nil {
				return err
			}
			files, err := util.ExpandGlobs(args)
			if err != nil {
				return err
			}

			mismatched := 0
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				orig := string(data)

				v, perr := text.Parse(orig, t)
				if perr != nil {
					return fmt.Errorf("%s: %w", file, perr)
				}
				reprinted, err := text.Print(v, t)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				reprinted += "\n"

				if reprinted == orig {
					continue
				}
				mismatched++

				switch {
				case write:
					if err := os.WriteFile(file, []byte(reprinted), 0o644); err != nil {
						return err
					}
				case showDiff:
					fmt.Print(util.UnifiedDiff(orig, reprinted, file, env.DiffContext, env.Color))
				default:
					fmt.Fprintf(os.Stderr, "not idempotent: %s\n", file)
				}
			}

			if mismatched > 0 && !write {
				return fmt.Errorf("%d file(s) not re-print idempotent", mismatched)
			}
			return nil
		},
	}
	config.BindTypeFlags(cmd.Flags(), &tf)
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff for each non-idempotent file instead of naming it on stderr")
	cmd.Flags().BoolVar(&write, "write", false, "rewrite each file with its re-printed form")
	return cmd
}
