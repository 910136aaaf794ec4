package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/abacus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "abacus version "+strings.TrimSpace(abacus.Version)+"\n", out)
}

func TestEval(t *testing.T) {
	out, err := execute(t, "", "eval", "2+3=", "=")
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)
}

func TestCalc(t *testing.T) {
	out, err := execute(t, "", "calc", "10", "/", "4")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n", out)

	out, err = execute(t, "", "calc", "1", "/", "0")
	require.NoError(t, err)
	assert.Equal(t, "NaN\n", out)

	_, err = execute(t, "", "calc", "1", "^", "0")
	assert.Error(t, err)
}

func TestRunAndSessions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ABACUS_STORE_DRIVER", "file")

	out, err := execute(t, "9*9=\n", "run", "--dir", dir, "--session", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "81")

	out, err = execute(t, "", "session", "ls", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "- cli")

	out, err = execute(t, "", "session", "inspect", "cli", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"current_value": "81"`)

	out, err = execute(t, "", "session", "rm", "cli", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'cli'")

	out, err = execute(t, "", "session", "ls", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}
