package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pagebuilder/internal/catalog"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/mock"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "pagebuilder", cmd.Use)
	assert.NotEmpty(t, cmd.Version)

	flag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "mcp", "catalog", "synth", "version"})
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pagebuilder version")
	assert.Contains(t, out, "commit:")
}

func TestCatalogCmd(t *testing.T) {
	out, err := run(t, "catalog")
	require.NoError(t, err)

	var doc catalogDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Groups, 3)
	assert.Equal(t, catalog.GroupContainer, doc.Groups[0].Name)

	total := 0
	for _, g := range doc.Groups {
		total += len(g.Components)
	}
	assert.Equal(t, len(catalog.Definitions()), total)
}

func TestCatalogCmd_SingleType(t *testing.T) {
	out, err := run(t, "catalog", "table")
	require.NoError(t, err)
	var def domain.ComponentDefinition
	require.NoError(t, yaml.Unmarshal([]byte(out), &def))
	assert.Equal(t, domain.TypeTable, def.Type)

	_, err = run(t, "catalog", "carousel")
	assert.Error(t, err)
}

func TestSynthCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "synth", "table", "--column", "name", "--column", "status")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.GreaterOrEqual(t, len(rows), mock.TableRowsMin)
	assert.Contains(t, rows[0], "status")

	out, err = run(t, "synth", "lineChart", "--url", "/api/month")
	require.NoError(t, err)
	var chart mock.ChartData
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	assert.Equal(t, []string{"一月", "二月", "三月", "四月", "五月", "六月"}, chart.Categories)
}

func TestSynthCmd_BadConfig(t *testing.T) {
	_, err := run(t, "--config", t.TempDir()+"/missing.yaml", "synth", "table")
	assert.Error(t, err)
}
