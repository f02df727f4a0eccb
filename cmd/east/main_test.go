package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/east/internal/config"
)

func testEnv() *config.EnvDefaults {
	return &config.EnvDefaults{Color: false, Indent: 2, DiffContext: 3}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd(testEnv())
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["print"])
	require.True(t, names["parse"])
	require.True(t, names["json"])
	require.True(t, names["cmp"])
	require.True(t, names["fmt"])
}

func TestParseThenPrintRoundTrips(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.east")
	jsonOut := filepath.Join(dir, "out.json")
	textOut := filepath.Join(dir, "back.east")

	require.NoError(t, os.WriteFile(in, []byte("(a=1, b=\"x\")"), 0o644))

	structType := `.struct [(name="a", type=.integer), (name="b", type=.string)]`

	root := newRootCmd(testEnv())
	root.SetArgs([]string{"parse", "--type", structType, "--in", in, "--out", jsonOut})
	require.NoError(t, root.Execute())

	root2 := newRootCmd(testEnv())
	root2.SetArgs([]string{"print", "--type", structType, "--in", jsonOut, "--out", textOut})
	require.NoError(t, root2.Execute())

	back, err := os.ReadFile(textOut)
	require.NoError(t, err)
	require.Contains(t, string(back), "a=1")
	require.Contains(t, string(back), `b="x"`)
}

func TestCmpReportsOrdering(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.east")
	b := filepath.Join(dir, "b.east")
	require.NoError(t, os.WriteFile(a, []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("2"), 0o644))

	root := newRootCmd(testEnv())
	root.SetArgs([]string{"cmp", "--type", ".integer", a, b})
	require.NoError(t, root.Execute())
}
