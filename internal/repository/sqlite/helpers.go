package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"domainverse/internal/domain"
	"domainverse/internal/repository"
)

// timestamps are stored as RFC 3339 text so they sort and read back unchanged
const timestampLayout = time.RFC3339Nano

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// scanEntry reads one row of the edits table
func scanEntry(rows *sql.Rows) (repository.JournalEntry, error) {
	var (
		entry     repository.JournalEntry
		kind      string
		targetID  sql.NullString
		createdAt string
	)

	if err := rows.Scan(&entry.ID, &kind, &entry.Edit.DomainID, &targetID, &entry.Edit.Value, &createdAt); err != nil {
		return entry, fmt.Errorf("failed to scan edit: %w", err)
	}

	entry.Edit.Kind = domain.EditKind(kind)
	entry.Edit.TargetID = nullToString(targetID)

	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return entry, err
	}
	entry.CreatedAt = ts

	return entry, nil
}
