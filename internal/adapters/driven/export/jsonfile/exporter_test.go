package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "documents.json")
	exporter := New(path)

	records := []domain.DocumentRecord{
		{ID: "2", Filename: "beta.pdf", Title: "Beta", Category: domain.CategoryTechnology, Difficulty: domain.DifficultyIntermediate},
		{ID: "1", Filename: "alpha.pdf", Title: "Alpha", Category: domain.CategoryAI, Difficulty: domain.DifficultyBeginner},
	}
	require.NoError(t, exporter.Export(context.Background(), records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var exported []domain.DocumentRecord
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Len(t, exported, 2)
	assert.Equal(t, "alpha.pdf", exported[0].Filename)
	assert.Equal(t, "beta.pdf", exported[1].Filename)
}

func TestExportEmptyLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	exporter := New(path)

	require.NoError(t, exporter.Export(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestExportReplacesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.json")
	exporter := New(path)
	ctx := context.Background()

	require.NoError(t, exporter.Export(ctx, []domain.DocumentRecord{{ID: "1", Filename: "a.pdf"}}))
	require.NoError(t, exporter.Export(ctx, []domain.DocumentRecord{
		{ID: "1", Filename: "a.pdf"},
		{ID: "2", Filename: "b.pdf"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var exported []domain.DocumentRecord
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Len(t, exported, 2)
}

func TestExportLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	exporter := New(filepath.Join(dir, "documents.json"))

	require.NoError(t, exporter.Export(context.Background(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "documents.json", entries[0].Name())
}
