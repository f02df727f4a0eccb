package main

import (
	"github.com/spf13/cobra"

	"github.com/oxhq/east/ejson"
	"github.com/oxhq/east/internal/config"
	"github.com/oxhq/east/text"
)

// newPrintCmd renders a JSON-encoded value in the surface text syntax.
func newPrintCmd() *cobra.Command {
	var io config.IOFlags
	var tf config.TypeFlags

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print a JSON-encoded value in the text codec's surface syntax",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.Resolve()
			if err != nil {
				return err
			}
			data, err := io.ReadInput()
			if err != nil {
				return err
			}
			v, err := ejson.Decode(data, t)
			if err != nil {
				return err
			}
			printed, err := text.Print(v, t)
			if err != nil {
				return err
			}
			return io.WriteOutput([]byte(printed + "\n"))
		},
	}
	config.BindIOFlags(cmd.Flags(), &io)
	config.BindTypeFlags(cmd.Flags(), &tf)
	return cmd
}
