package store

import (
	"context"

	"github.com/serroba/burnnote-go/internal/stats"
	"go.uber.org/zap"
)

// Noop is a stats.Store that only logs events. It backs deployments that
// run without Postgres.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op stats store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveNoteStored(_ context.Context, event *stats.NoteStoredEvent) error {
	n.logger.Info("note stored event received",
		zap.String("id", event.ID),
		zap.Int("sizeBytes", event.SizeBytes),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveNoteConsumed(_ context.Context, event *stats.NoteConsumedEvent) error {
	n.logger.Info("note consumed event received",
		zap.String("id", event.ID),
		zap.Int("sizeBytes", event.SizeBytes),
		zap.Time("consumedAt", event.ConsumedAt),
	)

	return nil
}

func (n *Noop) SaveSweepCompleted(_ context.Context, event *stats.SweepCompletedEvent) error {
	n.logger.Info("sweep completed event received",
		zap.Int("removed", event.Removed),
		zap.Duration("ttl", event.TTL),
		zap.Time("sweptAt", event.SweptAt),
	)

	return nil
}
