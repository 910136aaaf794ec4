package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/aretw0/abacus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOpts(t *testing.T, input string, out *bytes.Buffer) RunOptions {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Dir = t.TempDir()
	interactive := false
	return RunOptions{
		Config:      cfg,
		In:          strings.NewReader(input),
		Out:         out,
		Interactive: &interactive,
	}
}

func TestRunSession_Plain(t *testing.T) {
	var out bytes.Buffer
	opts := runOpts(t, "12+\n3=\n", &out)

	require.NoError(t, RunSession(opts))
	assert.Equal(t, "0\n12    [12 +]\n15\n", out.String())
}

func TestRunSession_PersistsAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	opts := runOpts(t, "6*7=\n", &out)
	opts.SessionID = "desk"
	require.NoError(t, RunSession(opts))

	entries, err := os.ReadDir(opts.Config.Store.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "desk.json", entries[0].Name())

	out.Reset()
	opts.In = strings.NewReader("=\n")
	require.NoError(t, RunSession(opts))
	assert.Equal(t, "42\n294\n", out.String())

	// Fresh discards the stored state
	out.Reset()
	opts.In = strings.NewReader("")
	opts.Fresh = true
	require.NoError(t, RunSession(opts))
	assert.Equal(t, "0\n", out.String())
}

func TestRunSession_JSON(t *testing.T) {
	var out bytes.Buffer
	opts := runOpts(t, `{"keys":"1+1="}`+"\n", &out)
	opts.JSON = true

	require.NoError(t, RunSession(opts))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"current_value":"2"`)
}

func TestEvaluate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Evaluate(context.Background(), &out, "12.5 * 4", "="))
	assert.Equal(t, "50\n", out.String())

	err := Evaluate(context.Background(), &out, "1 % 2")
	assert.Error(t, err)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.ErrorIs(t, handleExecutionError(assert.AnError), assert.AnError)
}
