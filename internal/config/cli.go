package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/oxhq/east/text"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

// IOFlags are the --in/--out flags of print, parse and json, following
// the teacher's internal/config/cli.go style of binding one flag per
// field on a caller-supplied FlagSet rather than a package-global set.
type IOFlags struct {
	In  string
	Out string
}

// BindIOFlags registers --in/--out on fs, defaulting both to "-" (stdio).
func BindIOFlags(fs *pflag.FlagSet, f *IOFlags) {
	fs.StringVar(&f.In, "in", "-", "input file, - for stdin")
	fs.StringVar(&f.Out, "out", "-", "output file, - for stdout")
}

// ReadInput returns f.In's contents, reading stdin when In is "-".
func (f *IOFlags) ReadInput() ([]byte, error) {
	if f.In == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(f.In)
}

// WriteOutput writes data to f.Out, writing stdout when Out is "-".
func (f *IOFlags) WriteOutput(data []byte) error {
	if f.Out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(f.Out, data, 0o644)
}

// TypeFlags is the --type flag every subcommand needs: a type descriptor
// spelled in the text codec's own variant grammar against
// value.TypeDescriptorType(), then reconstructed with value.UndescribeType.
// This reuses the generic codec instead of inventing a second type-literal
// grammar just for the CLI.
type TypeFlags struct {
	TypeText string
}

// BindTypeFlags registers --type on fs.
func BindTypeFlags(fs *pflag.FlagSet, f *TypeFlags) {
	fs.StringVar(&f.TypeText, "type", "",
		`value's type, as a type-descriptor literal, e.g. .integer or .array .string`)
}

// Resolve parses TypeText into a *types.Type, erroring if it was left empty.
func (f *TypeFlags) Resolve() (*types.Type, error) {
	if f.TypeText == "" {
		return nil, fmt.Errorf("--type is required")
	}
	tv, perr := text.Parse(f.TypeText, value.TypeDescriptorType())
	if perr != nil {
		return nil, fmt.Errorf("--type: %w", perr)
	}
	return value.UndescribeType(tv)
}
