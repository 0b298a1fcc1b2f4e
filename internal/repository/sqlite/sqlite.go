package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"domainverse/internal/domain"
	"domainverse/internal/repository"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// Repository implements repository.EditJournal using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.EditJournal = (*Repository)(nil)

// New opens (and creates when missing) the journal database at dbPath
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != memoryPath {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == memoryPath {
		// each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS edits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		domain_id TEXT NOT NULL,
		target_id TEXT,
		value TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_edits_domain ON edits(domain_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// RecordEdit appends an edit to the journal
func (r *Repository) RecordEdit(ctx context.Context, edit domain.Edit) error {
	if !edit.Valid() {
		return fmt.Errorf("record edit: unknown kind %q", edit.Kind)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO edits (kind, domain_id, target_id, value, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, string(edit.Kind), edit.DomainID, stringToNull(edit.TargetID), edit.Value, formatTimestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to insert edit: %w", err)
	}
	return nil
}

// ListEdits returns every journaled edit in insertion order
func (r *Repository) ListEdits(ctx context.Context) ([]repository.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, domain_id, target_id, value, created_at
		FROM edits
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	entries := make([]repository.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edits: %w", err)
	}

	return entries, nil
}

// EditsForDomain returns the journaled edits whose source is domainID
func (r *Repository) EditsForDomain(ctx context.Context, domainID string) ([]repository.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, domain_id, target_id, value, created_at
		FROM edits
		WHERE domain_id = ?
		ORDER BY id
	`, domainID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	entries := make([]repository.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountEdits returns the journal length
func (r *Repository) CountEdits(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edits`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count edits: %w", err)
	}
	return n, nil
}

// ClearEdits empties the journal
func (r *Repository) ClearEdits(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM edits`); err != nil {
		return fmt.Errorf("failed to clear edits: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
