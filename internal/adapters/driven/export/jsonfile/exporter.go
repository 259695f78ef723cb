// Package jsonfile exports the document library as a JSON file for the
// static site frontend.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// Exporter writes the full record set to a single JSON array file. The
// file is replaced atomically so a reader never observes a partial write.
type Exporter struct {
	path string
}

var _ driven.SiteExporter = (*Exporter)(nil)

// New creates an exporter writing to the given file path.
func New(path string) *Exporter {
	return &Exporter{path: path}
}

// Path returns the output file path.
func (e *Exporter) Path() string {
	return e.path
}

// Export writes all records, sorted by filename, to the output file.
func (e *Exporter) Export(ctx context.Context, records []domain.DocumentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := make([]domain.DocumentRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Filename < sorted[j].Filename
	})

	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling records: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Write-then-rename keeps the previous export intact on failure.
	tmp, err := os.CreateTemp(dir, ".documents-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, e.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing export: %w", err)
	}
	return nil
}
