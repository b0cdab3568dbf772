// Package catalog persists registered table schemas so that every
// process resolving a (table, version) pair sees the same DDL and the
// same accessor identifier. The catalog stores schema metadata only;
// table data never passes through it.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/etsangsplk/riak-ql/internal/ddl"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by Get when no schema is registered under the
// requested (table, version).
var ErrNotFound = errors.New("catalog: schema not found")

// ErrFingerprintConflict is returned by Put when a different schema is
// already registered under the same (table, version). A schema change
// must bump the version, never redefine an existing one.
var ErrFingerprintConflict = errors.New("catalog: fingerprint conflict")

// Entry is one registered schema.
type Entry struct {
	ID           string // registration id, uuid v7
	Table        string
	Version      int
	AccessorName string
	Fingerprint  string
	Definition   []byte // canonical DDL JSON
	CreatedAt    time.Time
}

// Catalog is a SQLite-backed schema catalog.
type Catalog struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the catalog database at path.
//
// SQLite is configured with WAL mode for concurrent reads, a busy
// timeout for lock contention, and a single writer connection. Opening
// is idempotent; the embedded schema applies with IF NOT EXISTS.
func Open(path string, log zerolog.Logger) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: connect: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("catalog opened")
	return &Catalog{db: db, log: log}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put registers a schema. Re-registering an identical schema under the
// same (table, version) is idempotent and returns the existing entry;
// registering a different schema under an occupied (table, version)
// fails with ErrFingerprintConflict.
func (c *Catalog) Put(ctx context.Context, schema *ddl.Schema) (*Entry, error) {
	fingerprint, err := schema.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("catalog: fingerprint %q: %w", schema.Table, err)
	}
	definition, err := schema.CanonicalJSON()
	if err != nil {
		return nil, fmt.Errorf("catalog: serialize %q: %w", schema.Table, err)
	}

	existing, err := c.Get(ctx, schema.Table, schema.Version)
	switch {
	case err == nil:
		if existing.Fingerprint != fingerprint {
			return nil, fmt.Errorf("%w: %s version %d is registered with fingerprint %s",
				ErrFingerprintConflict, schema.Table, schema.Version, existing.Fingerprint)
		}
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	entry := &Entry{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Table:        schema.Table,
		Version:      schema.Version,
		AccessorName: ddl.AccessorName(schema.Table, schema.Version),
		Fingerprint:  fingerprint,
		Definition:   definition,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO schemas
		(id, table_name, version, accessor_name, fingerprint, definition, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Table,
		entry.Version,
		entry.AccessorName,
		entry.Fingerprint,
		string(entry.Definition),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: register %q: %w", schema.Table, err)
	}

	c.log.Info().
		Str("table", entry.Table).
		Int("version", entry.Version).
		Str("fingerprint", entry.Fingerprint).
		Msg("schema registered")
	return entry, nil
}

// Get returns the entry registered under (table, version), or
// ErrNotFound.
func (c *Catalog) Get(ctx context.Context, table string, version int) (*Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT id, table_name, version, accessor_name, fingerprint, definition, created_at
		FROM schemas
		WHERE table_name = ? AND version = ?
	`, table, version)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %q version %d: %w", table, version, err)
	}
	return entry, nil
}

// List returns every registered entry ordered by table name, then
// version.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, table_name, version, accessor_name, fingerprint, definition, created_at
		FROM schemas
		ORDER BY table_name, version
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: list: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return entries, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var entry Entry
	var definition string
	var createdAt string
	if err := s.Scan(&entry.ID, &entry.Table, &entry.Version, &entry.AccessorName,
		&entry.Fingerprint, &definition, &createdAt); err != nil {
		return nil, err
	}
	entry.Definition = []byte(definition)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	entry.CreatedAt = ts
	return &entry, nil
}
