package stats

import "context"

// Store persists usage events.
type Store interface {
	SaveNoteStored(ctx context.Context, event *NoteStoredEvent) error
	SaveNoteConsumed(ctx context.Context, event *NoteConsumedEvent) error
	SaveSweepCompleted(ctx context.Context, event *SweepCompletedEvent) error
}
