package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docshelf-labs/docshelf-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
	"github.com/docshelf-labs/docshelf-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed state store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.StateStore = (*Store)(nil)

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.docshelf/data/library.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docshelf", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "library.db")

	// WAL mode so a status read never blocks behind a running commit
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Commit stores a document record together with its manifest entry in one
// transaction. Re-committing the same path replaces both rows.
func (s *Store) Commit(ctx context.Context, record domain.DocumentRecord, entry domain.ManifestEntry) error {
	authorsJSON, err := json.Marshal(record.Authors)
	if err != nil {
		return fmt.Errorf("marshalling authors: %w", err)
	}
	keywordsJSON, err := json.Marshal(record.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, title, authors, summary, keywords,
			category, difficulty, content_preview, filepath, file_size, upload_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			title = excluded.title,
			authors = excluded.authors,
			summary = excluded.summary,
			keywords = excluded.keywords,
			category = excluded.category,
			difficulty = excluded.difficulty,
			content_preview = excluded.content_preview,
			filepath = excluded.filepath,
			file_size = excluded.file_size,
			upload_date = excluded.upload_date
	`, record.ID, record.Filename, record.Title, string(authorsJSON), record.Summary,
		string(keywordsJSON), string(record.Category), string(record.Difficulty),
		record.ContentPreview, record.Filepath, record.FileSize, record.UploadedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO manifest (path, content_hash, processed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			processed_at = excluded.processed_at
	`, entry.Path, entry.ContentHash, entry.ProcessedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving manifest entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Remove deletes a document record and its manifest entry in one
// transaction. Removing an unknown path is not an error.
func (s *Store) Remove(ctx context.Context, recordID, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", recordID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM manifest WHERE path = ?", path); err != nil {
		return fmt.Errorf("deleting manifest entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Records returns all document records sorted by filename.
func (s *Store) Records(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, title, authors, summary, keywords,
			category, difficulty, content_preview, filepath, file_size, upload_date
		FROM documents
		ORDER BY filename
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var records []domain.DocumentRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return records, nil
}

// Manifest returns the processing manifest keyed by file path.
func (s *Store) Manifest(ctx context.Context) (map[string]domain.ManifestEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, content_hash, processed_at FROM manifest")
	if err != nil {
		return nil, fmt.Errorf("querying manifest: %w", err)
	}
	defer rows.Close()

	manifest := make(map[string]domain.ManifestEntry)
	for rows.Next() {
		var entry domain.ManifestEntry
		if err := rows.Scan(&entry.Path, &entry.ContentHash, &entry.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scanning manifest entry: %w", err)
		}
		manifest[entry.Path] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating manifest: %w", err)
	}
	return manifest, nil
}

// scanRecord reads one document row.
func scanRecord(rows *sql.Rows) (domain.DocumentRecord, error) {
	var (
		record                    domain.DocumentRecord
		authorsJSON, keywordsJSON string
		category, difficulty      string
	)
	err := rows.Scan(&record.ID, &record.Filename, &record.Title, &authorsJSON,
		&record.Summary, &keywordsJSON, &category, &difficulty,
		&record.ContentPreview, &record.Filepath, &record.FileSize, &record.UploadedAt)
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(authorsJSON), &record.Authors); err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("unmarshalling authors: %w", err)
	}
	if err := json.Unmarshal([]byte(keywordsJSON), &record.Keywords); err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("unmarshalling keywords: %w", err)
	}
	record.Category = domain.Category(category)
	record.Difficulty = domain.Difficulty(difficulty)
	return record, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
