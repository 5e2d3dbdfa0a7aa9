package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/stockcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// fileEnv points every command at a throwaway catalog and JSON value file.
func fileEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("quantities:\n  Orange: 2\nyes_no: [Soap]\npacks: [Napkins]\n"), 0o644))

	t.Setenv("STOCKCHECK_CATALOG", catalogPath)
	t.Setenv("STOCKCHECK_STORAGE_DRIVER", "file")
	t.Setenv("STOCKCHECK_STORAGE_PATH", filepath.Join(dir, "values.json"))
	t.Setenv("STOCKCHECK_LOG_LEVEL", "error")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "stockcheck version "+strings.TrimSpace(stockcheck.Version)+"\n", out)
}

func TestCatalogCommand(t *testing.T) {
	fileEnv(t)

	out, err := execute(t, "catalog")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"NAME", "KIND", "MIN"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Orange", "quantity", "2"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Soap", "yes_no", "-"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Napkins", "pack", "-"}, strings.Fields(lines[3]))
}

func TestValuesCommands(t *testing.T) {
	fileEnv(t)

	_, err := execute(t, "values", "set", "Orange", "5")
	require.NoError(t, err)

	out, err := execute(t, "values", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Orange")
	assert.Equal(t, []string{"Orange", "5"}, strings.Fields(strings.Split(out, "\n")[1]))
	assert.Equal(t, []string{"Soap", "0"}, strings.Fields(strings.Split(out, "\n")[2]), "seeded default")

	_, err = execute(t, "values", "set", "Unknown", "1")
	assert.Error(t, err, "only catalog items can be set")
}

func TestReportCommand(t *testing.T) {
	fileEnv(t)

	_, err := execute(t, "values", "set", "Soap", "мало")
	require.NoError(t, err)

	out, err := execute(t, "report", "--plain")
	require.NoError(t, err)
	assert.Equal(t, "📦 Отчет:\n\nOrange: 0\nSoap: мало\nNapkins: 0\n\n⚠️ МАЛО:\n- Orange\n- Soap\n", out)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("STOCKCHECK_STORAGE_DRIVER", "cassandra")

	_, err := execute(t, "report")
	assert.ErrorContains(t, err, "cassandra")
}
