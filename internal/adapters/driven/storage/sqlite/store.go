// Package sqlite provides the persistent source store on SQLite.
// Source configurations and their credential bags live in one
// database file under the config directory.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/meridian-labs/omnisearch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/meridian-labs/omnisearch-cli/internal/core/domain"
	"github.com/meridian-labs/omnisearch-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SourceStore = (*Store)(nil)

// Store is a SQLite-backed source store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.omnisearch.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".omnisearch")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sources.db")

	// WAL mode for better concurrency between the CLI and a running
	// MCP server.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
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

// Save stores or updates a source.
func (s *Store) Save(ctx context.Context, source domain.Source) error {
	config, err := json.Marshal(source.Config)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	credentials, err := json.Marshal(source.Credentials)
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sources (id, type, name, enabled, status, config, credentials, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			enabled = excluded.enabled,
			status = excluded.status,
			config = excluded.config,
			credentials = excluded.credentials,
			updated_at = excluded.updated_at
	`, source.ID, source.Type, source.Name, source.Enabled, string(source.Status),
		string(config), string(credentials),
		source.CreatedAt.UTC().Format(time.RFC3339Nano),
		source.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, type, name, enabled, status, config, credentials, created_at, updated_at
		FROM sources WHERE id = ?
	`, id)

	source, err := scanSource(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting source: %w", err)
	}
	return source, nil
}

// Delete removes a source and its credentials.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all configured sources ordered by creation time, so
// adapter selection and result tie-breaking stay deterministic.
func (s *Store) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, name, enabled, status, config, credentials, created_at, updated_at
		FROM sources
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		source, err := scanSource(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("listing sources: %w", err)
		}
		sources = append(sources, *source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	return sources, nil
}

// scanSource reads one sources row through the given scan function.
func scanSource(scan func(...any) error) (*domain.Source, error) {
	var source domain.Source
	var status, config, credentials, createdAt, updatedAt string

	if err := scan(&source.ID, &source.Type, &source.Name, &source.Enabled,
		&status, &config, &credentials, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	source.Status = domain.ConnectionStatus(status)
	if err := json.Unmarshal([]byte(config), &source.Config); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := json.Unmarshal([]byte(credentials), &source.Credentials); err != nil {
		return nil, fmt.Errorf("unmarshalling credentials: %w", err)
	}
	source.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	source.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &source, nil
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
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
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
