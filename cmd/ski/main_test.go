package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ski "ski-go"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	cmd := newSkiCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCmd(t *testing.T) {
	out, err := run(t, "parse", "SKK")
	require.NoError(t, err)
	assert.Equal(t, "((SK)K)\t(5 nodes)\n", out)

	_, err = run(t, "parse", "(SK")
	var merr *ski.MalformedExpressionError
	assert.ErrorAs(t, err, &merr)
}

func TestStepCmd(t *testing.T) {
	out, err := run(t, "step", "-n", "3", "(((SK)K)I)")
	require.NoError(t, err)
	assert.Equal(t, "((KI)(KI))\nI\nnormal form\n", out)
}

func TestReduceCmd(t *testing.T) {
	out, err := run(t, "reduce", "(((SK)K)a)")
	require.NoError(t, err)
	assert.Equal(t, "a\t(2 steps)\n", out)

	out, err = run(t, "reduce", "--trace", "(((SK)K)a)")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "    1  S  ((Ka)(Ka))", lines[0])
	assert.Equal(t, "    2  K  a", lines[1])
}

func TestReduceCmdDivergent(t *testing.T) {
	_, err := run(t, "reduce", "--max-steps", "20", "(((SI)I)((SI)I))")
	assert.ErrorIs(t, err, ski.ErrStepLimit)
}

func TestReduceCmdConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ski.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strategy: innermost\n"), 0o600))

	out, err := run(t, "reduce", "--config", path, "--trace", "((Ka)(Ib))")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "    1  I  ((Ka)b)\n"), out)

	// Flags win over the file.
	out, err = run(t, "reduce", "--config", path, "--strategy", "outermost", "--trace", "((Ka)(Ib))")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "    1  K  a\n"), out)

	_, err = run(t, "reduce", "--strategy", "sideways", "a")
	assert.Error(t, err)
}

func TestLayoutCmd(t *testing.T) {
	out, err := run(t, "layout", "--spacing", "10", "--level-height", "20", "(ab)")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"(ab)", "0", "0", "5", "5", "20"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"a", "-5", "-20", "0", "0", "0"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"b", "5", "-20", "0", "0", "0"}, strings.Fields(lines[3]))
}

func TestRenderCmd(t *testing.T) {
	out, err := run(t, "render", "(S(KK))")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))

	path := filepath.Join(t.TempDir(), "tree.svg")
	_, err = run(t, "render", "-o", path, "(Ia)")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "</svg>")
}
