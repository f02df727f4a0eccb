package main

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/east/ejson"
	"github.com/oxhq/east/internal/config"
	"github.com/oxhq/east/text"
)

// newJSONCmd groups the explicit codec-level encode/decode verbs. Unlike
// the terser print/parse commands, "json encode" re-indents its output
// by the --indent flag (default 2) so its result is easy to read on its own.
func newJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Explicit JSON codec operations (encode/decode)",
	}
	cmd.AddCommand(newJSONEncodeCmd(), newJSONDecodeCmd())
	return cmd
}

func newJSONEncodeCmd() *cobra.Command {
	var io config.IOFlags
	var tf config.TypeFlags
	var indent int

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Parse a text-syntax value and encode it as indented JSON",
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
			raw, err := ejson.Encode(v, t)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, raw, "", strings.Repeat(" ", indent)); err != nil {
				return err
			}
			buf.WriteByte('\n')
			return io.WriteOutput(buf.Bytes())
		},
	}
	config.BindIOFlags(cmd.Flags(), &io)
	config.BindTypeFlags(cmd.Flags(), &tf)
	cmd.Flags().IntVar(&indent, "indent", 2, "number of spaces to indent the JSON output")
	return cmd
}

func newJSONDecodeCmd() *cobra.Command {
	var io config.IOFlags
	var tf config.TypeFlags

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a JSON value and print it in the text codec's surface syntax",
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
