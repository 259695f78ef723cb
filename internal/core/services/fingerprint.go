package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/logger"
)

// DefaultExtensions are the source file extensions scanned when the
// configuration does not override them.
var DefaultExtensions = []string{".pdf", ".txt", ".md"}

// Fingerprinter computes stable content hashes for source files.
// Hashes depend only on file bytes, never on filesystem metadata, so they
// are deterministic across platforms and copies.
type Fingerprinter struct {
	root       string
	extensions map[string]bool
}

// NewFingerprinter creates a fingerprinter over the given source root.
// Extensions are matched case-insensitively; pass nil for the defaults.
func NewFingerprinter(root string, extensions []string) *Fingerprinter {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = true
	}
	return &Fingerprinter{root: root, extensions: set}
}

// Hash fingerprints a single file. Read failures are returned to the
// caller, who records the file as unreadable rather than failing the run.
func (f *Fingerprinter) Hash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Scan lists and fingerprints the source root, returning one FileState per
// matching file in deterministic path order. Hashing runs on a bounded
// worker pool; ordering and commit sequencing are unaffected because the
// orchestrator consumes the sorted result.
func (f *Fingerprinter) Scan(ctx context.Context) ([]domain.FileState, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("read source directory %s: %w", f.root, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if f.extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, entry.Name())
		}
	}
	sort.Strings(paths)

	states := make([]domain.FileState, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range paths {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			abs := filepath.Join(f.root, name)
			state := domain.FileState{
				Path:    NormalizePath(name),
				AbsPath: abs,
			}

			if info, err := os.Stat(abs); err == nil {
				state.Size = info.Size()
				state.ModTime = info.ModTime()
			}

			hash, err := f.Hash(abs)
			if err != nil {
				logger.Warn("Cannot fingerprint %s: %v", name, err)
				state.ReadErr = err
			} else {
				state.ContentHash = hash
			}

			mu.Lock()
			states[i] = state
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

// NormalizePath converts a source-relative path to the manifest key form:
// forward slashes regardless of host separator.
func NormalizePath(rel string) string {
	return filepath.ToSlash(rel)
}
