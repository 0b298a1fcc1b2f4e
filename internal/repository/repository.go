package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"domainverse/internal/domain"
	"domainverse/internal/logger"
)

// JournalEntry is a recorded edit with its position in the journal
type JournalEntry struct {
	ID        int64       `json:"id"`
	Edit      domain.Edit `json:"edit"`
	CreatedAt time.Time   `json:"created_at"`
}

// EditJournal persists runtime edits so they survive a restart
type EditJournal interface {
	RecordEdit(ctx context.Context, edit domain.Edit) error
	// ListEdits returns entries in the order they were recorded
	ListEdits(ctx context.Context) ([]JournalEntry, error)
	ClearEdits(ctx context.Context) error

	// Close releases resources
	Close() error
}

// ReplayResult counts the outcome of a replay
type ReplayResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// Replay applies every journaled edit to g in order. Edits that no longer
// resolve against the catalog are skipped and logged.
func Replay(ctx context.Context, journal EditJournal, g *domain.Graph) (ReplayResult, error) {
	var result ReplayResult

	entries, err := journal.ListEdits(ctx)
	if err != nil {
		return result, err
	}

	for _, entry := range entries {
		if g.Apply(entry.Edit) {
			result.Applied++
			continue
		}
		result.Skipped++
		logger.Warn(ctx, "journaled edit no longer applies",
			zap.Int64("entry", entry.ID),
			zap.String("kind", string(entry.Edit.Kind)),
			zap.String("domain_id", entry.Edit.DomainID),
			zap.String("target_id", entry.Edit.TargetID),
		)
	}

	return result, nil
}
