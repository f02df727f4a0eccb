package main

import (
	"github.com/spf13/cobra"

	"github.com/oxhq/east/ejson"
	"github.com/oxhq/east/internal/config"
	"github.com/oxhq/east/text"
)

// newParseCmd parses a text-syntax value and emits its JSON encoding.
func newParseCmd() *cobra.Command {
	var io config.IOFlags
	var tf config.TypeFlags

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a text-syntax value and emit its JSON encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.Resolve()
			if err != nil {
				return err
			}
			data, err := io.ReadInput()
			if err != nil {
				return err
			}
			v, perr := text.Parse(string(data), t)
			if perr != nil {
				return perr
			}
			out, err := ejson.Encode(v, t)
			if err != nil {
				return err
			}
			return io.WriteOutput(append(out, '\n'))
		},
	}
	config.BindIOFlags(cmd.Flags(), &io)
	config.BindTypeFlags(cmd.Flags(), &tf)
	return cmd
}
