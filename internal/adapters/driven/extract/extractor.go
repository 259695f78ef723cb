// Package extract provides the text extractor adapter.
//
// Plain-text formats are read directly. PDF files get a best-effort scan
// for embedded text runs; extraction quality is deliberately allowed to be
// poor because downstream parsing and the filename fallback absorb weak
// input. A file that yields no text at all is reported unreadable.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// minRunLength is the shortest byte run kept when scanning binary
// formats for embedded text.
const minRunLength = 4

// Extractor extracts plain text from source documents.
type Extractor struct{}

var _ driven.TextExtractor = (*Extractor)(nil)

// New creates a text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its plain text, bounded to
// maxBytes.
func (e *Extractor) Extract(ctx context.Context, path string, maxBytes int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableSource, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableSource, err)
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		if !utf8.Valid(raw) || strings.ContainsRune(string(raw), 0) {
			return "", fmt.Errorf("%w: %s is not valid text", domain.ErrUnreadableSource, filepath.Base(path))
		}
		text = string(raw)
	default:
		text = scanTextRuns(raw)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no extractable text in %s", domain.ErrUnreadableSource, filepath.Base(path))
	}
	return text, nil
}

// scanTextRuns pulls printable runs out of a binary payload. Runs shorter
// than minRunLength are mostly structural noise and get dropped.
func scanTextRuns(raw []byte) string {
	var (
		out strings.Builder
		run []byte
	)
	flush := func() {
		if len(run) >= minRunLength {
			if out.Len() > 0 {
				out.WriteByte(' ')
			}
			out.Write(run)
		}
		run = run[:0]
	}

	for _, b := range raw {
		if b >= 0x20 && b < 0x7f {
			run = append(run, b)
			continue
		}
		flush()
	}
	flush()
	return out.String()
}
