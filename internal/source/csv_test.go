package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/value"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "name,amount\nalice,10\nbob,20\n")

	d, err := loadCSV(&config.Source{Name: "data.csv", Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "amount"}, d.Columns)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "alice", value.AsString(d.Rows[0]["name"]))
	assert.Equal(t, 10.0, value.AsNumber(d.Rows[0]["amount"]))
}

func TestLoadCSVRaggedRows(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2\n")

	d, err := loadCSV(&config.Source{Name: "r.csv", Path: path})
	require.NoError(t, err)
	require.Len(t, d.Rows, 1)
	assert.True(t, value.IsMissing(d.Rows[0]["c"]), "short rows read as null")
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	d, err := loadCSV(&config.Source{Name: "e.csv", Path: path})
	require.NoError(t, err)
	assert.Empty(t, d.Columns)
	assert.Empty(t, d.Rows)
}

func TestLoadCatalogOrder(t *testing.T) {
	first := writeCSV(t, "region,x\nwest,1\n")
	second := writeCSV(t, "region,y\neast,2\n")

	catalog, err := LoadCatalog(context.Background(), []*config.Source{
		{Name: "first.csv", Path: first},
		{Name: "second.csv", Path: second},
	})
	require.NoError(t, err)
	require.Len(t, catalog.Sources(), 2)
	assert.Equal(t, "first.csv", catalog.First().Name, "load order is preserved")
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := load(context.Background(), &config.Source{Name: "x", Path: "x.parquet"})
	assert.Error(t, err)
}
