package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns what it wrote to
// stdout and stderr. Flag values are reset first, since they live in
// package variables.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	for _, c := range []*cobra.Command{rootCmd, parseCmd, scanCmd} {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseCommand(t *testing.T) {
	out, _, err := run(t, "", "parse", "", "1", "1f", "2f", "2foo", "0x")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		`"": incomplete need=unknown`,
		`"1": incomplete need=unknown`,
		`"1f": done token="f" rest=""`,
		`"2f": incomplete need=1`,
		`"2foo": done token="fo" rest="o"`,
		`"0x": done token="" rest="x"`,
	}, "\n")+"\n", out)
}

func TestParseCommandMalformed(t *testing.T) {
	out, _, err := run(t, "", "parse", "3abc", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 input(s) malformed")
	assert.Contains(t, out, `"abc": error: demangle: invalid <number> at offset 0`)
}

func TestParseCommandHex(t *testing.T) {
	out, _, err := run(t, "", "parse", "--hex", "3266ff00")
	require.NoError(t, err)
	assert.Equal(t, `"2f\xff\x00": done token="f\xff" rest="\x00"`+"\n", out)

	_, _, err = run(t, "", "parse", "-x", "zz")
	assert.Error(t, err)
}

func TestScanCommandStdin(t *testing.T) {
	out, _, err := run(t, "3foo3bar12hello_world!", "scan")
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar\nhello_world!\n", out)
}

func TestScanCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.bin")
	require.NoError(t, os.WriteFile(path, []byte("2ab1\n"), 0o644))

	out, _, err := run(t, "", "scan", "--quote", path)
	require.NoError(t, err)
	assert.Equal(t, "\"ab\"\n\"\\n\"\n", out)
}

func TestScanCommandTruncated(t *testing.T) {
	out, stderr, err := run(t, "3foo9bar", "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<stdin>: stream: input truncated at offset 8")
	assert.Equal(t, "foo\n", out)
	assert.Contains(t, stderr, "input ends inside a token")
}

func TestScanCommandMalformed(t *testing.T) {
	_, _, err := run(t, "3foo-1x", "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at offset 4")
}

func TestScanCommandConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "srcname.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunk-size: 1\nverbose: true\n"), 0o644))

	out, stderr, err := run(t, "3foo", "--config", path, "scan")
	require.NoError(t, err)
	assert.Equal(t, "foo\n", out)

	// "3", "f", then the two missing payload bytes, then end of input.
	assert.Equal(t, 4, strings.Count(stderr, "refill"))
}

func TestScanCommandFlagOverridesEnv(t *testing.T) {
	t.Setenv("SRCNAME_MAX_LENGTH", "4")

	_, _, err := run(t, "10abcdefghij", "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffered input exceeds limit")

	out, _, err := run(t, "10abcdefghij", "scan", "--max-length", "64")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghij\n", out)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "", "scan", "--chunk-size", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid chunk-size")
}
