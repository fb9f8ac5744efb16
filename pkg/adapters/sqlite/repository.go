// Package sqlite stores notes in a SQLite database through modernc.org/sqlite (pure Go, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite"

	"github.com/aretw0/quire/pkg/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	author     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_author ON notes(author);
`

// Config holds the configuration for the SQLite repository.
type Config struct {
	// Path is the database file, or ":memory:".
	Path     string
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository and core.AuthorLister on SQLite.
type Repository struct {
	db     *sql.DB
	config Config
	writes atomic.Int64
}

// Open opens (creating if needed) the database at config.Path.
// Call Initialize to create the schema.
func Open(config Config) (*Repository, error) {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Path == "" {
		return nil, errors.New("sqlite path is empty")
	}

	if dir := filepath.Dir(config.Path); dir != "." && dir != "" && config.Path != ":memory:" && !config.ReadOnly {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// A single connection serialises writers and keeps a ":memory:" database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Repository{db: db, config: config}, nil
}

// Initialize applies pragmas and creates the schema.
func (r *Repository) Initialize(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
	}
	switch {
	case r.config.ReadOnly:
		pragmas = append(pragmas, "PRAGMA query_only=ON")
	case r.config.Path != ":memory:":
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := r.db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if r.config.ReadOnly {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	r.config.Logger.Debug("sqlite schema ready", "path", r.config.Path)
	return nil
}

// Save upserts a note in a single statement.
func (r *Repository) Save(ctx context.Context, n core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if n.ID == "" {
		return fmt.Errorf("note has no ID")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, content, author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			author = excluded.author,
			updated_at = excluded.updated_at`,
		n.ID, n.Title, n.Content, n.Author, n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save note %s: %w", n.ID, err)
	}
	r.writes.Add(1)
	return nil
}

// Get retrieves a note by its ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Note, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, content, author, created_at, updated_at FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return n, nil
}

// List returns all notes ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	return r.query(ctx,
		`SELECT id, title, content, author, created_at, updated_at FROM notes ORDER BY created_at, id`)
}

// ListByAuthor implements core.AuthorLister using the author index.
func (r *Repository) ListByAuthor(ctx context.Context, author string) ([]core.Note, error) {
	return r.query(ctx,
		`SELECT id, title, content, author, created_at, updated_at FROM notes WHERE author = ? ORDER BY created_at, id`,
		author)
}

// Delete removes a note by its ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	r.writes.Add(1)
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]core.Note, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []core.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (core.Note, error) {
	var (
		n                core.Note
		created, updated int64
	)
	if err := s.Scan(&n.ID, &n.Title, &n.Content, &n.Author, &created, &updated); err != nil {
		return core.Note{}, err
	}
	n.CreatedAt = time.Unix(0, created).UTC()
	n.UpdatedAt = time.Unix(0, updated).UTC()
	return n, nil
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path        string `json:"path"`
	ReadOnly    bool   `json:"read_only"`
	OpenConns   int    `json:"open_connections"`
	InUse       int    `json:"in_use"`
	WritesTotal int64  `json:"writes_total"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	stats := r.db.Stats()
	return RepositoryState{
		Path:        r.config.Path,
		ReadOnly:    r.config.ReadOnly,
		OpenConns:   stats.OpenConnections,
		InUse:       stats.InUse,
		WritesTotal: r.writes.Load(),
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
var _ core.AuthorLister = (*Repository)(nil)
