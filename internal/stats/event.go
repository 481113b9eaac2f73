package stats

import "time"

const (
	TopicNoteStored     = "notes.stored"
	TopicNoteConsumed   = "notes.consumed"
	TopicSweepCompleted = "notes.swept"
)

// NoteStoredEvent is emitted when a note is accepted into the vault.
// Events carry note metadata only, never client identity or blob content.
type NoteStoredEvent struct {
	ID        string    `json:"id"`
	SizeBytes int       `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoteConsumedEvent is emitted when a note is read and destroyed.
type NoteConsumedEvent struct {
	ID         string    `json:"id"`
	SizeBytes  int       `json:"sizeBytes"`
	StoredAt   time.Time `json:"storedAt"`
	ConsumedAt time.Time `json:"consumedAt"`
}

// SweepCompletedEvent is emitted after an expiry sweep that removed notes.
// Sweeps that remove nothing do not produce an event.
type SweepCompletedEvent struct {
	Removed int           `json:"removed"`
	TTL     time.Duration `json:"ttl"`
	SweptAt time.Time     `json:"sweptAt"`
}
