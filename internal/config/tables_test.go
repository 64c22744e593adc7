package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTablesYAML = `
synonymGroups:
  - [golang, go]
  - [javascript, js]
regions:
  - name: emea
    places: [london, berlin, dubai]
remotePreferences: [remote]
localRegion: emea
defaultSeniority: 3
`

func writeTablesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTablesFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeTablesFile(t, sampleTablesYAML)

		tables, err := LoadTablesFile(path)
		require.NoError(t, err)
		assert.Len(t, tables.SynonymGroups, 2)
		assert.Len(t, tables.Regions, 1)
		assert.Equal(t, "emea", tables.LocalRegion)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTablesFile("/nonexistent/tables.yaml")
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeTablesFile(t, "synonymGroups: [unclosed")

		_, err := LoadTablesFile(path)
		assert.Error(t, err)
	})

	t.Run("invalid tables", func(t *testing.T) {
		// Single-entry synonym groups are rejected
		path := writeTablesFile(t, "synonymGroups:\n  - [lonely]\n")

		_, err := LoadTablesFile(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "synonym group")
	})
}

func TestConfigLoadTables(t *testing.T) {
	logger := newMockLogger()

	t.Run("defaults without tables file", func(t *testing.T) {
		cfg := &Config{}

		tables, err := cfg.LoadTables(logger)
		require.NoError(t, err)
		assert.NotEmpty(t, tables.SynonymGroups)
		assert.NotEmpty(t, tables.Regions)
	})

	t.Run("configured file replaces defaults", func(t *testing.T) {
		cfg := &Config{}
		cfg.Match.TablesFile = writeTablesFile(t, sampleTablesYAML)

		tables, err := cfg.LoadTables(logger)
		require.NoError(t, err)
		assert.Len(t, tables.SynonymGroups, 2)
		assert.Equal(t, "emea", tables.LocalRegion)
	})

	t.Run("error on unreadable file", func(t *testing.T) {
		cfg := &Config{}
		cfg.Match.TablesFile = "/nonexistent/tables.yaml"

		_, err := cfg.LoadTables(logger)
		assert.Error(t, err)
	})
}
