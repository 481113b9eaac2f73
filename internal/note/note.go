package note

import (
	"context"
	"errors"
	"time"
)

// ID is the one-time retrieval identifier handed back to the sender.
type ID string

// Note is a stored ciphertext blob awaiting its single retrieval.
// The server never interprets the blob; encryption happens client-side.
type Note struct {
	ID        ID
	Blob      []byte
	CreatedAt time.Time
}

var (
	// ErrNotFound is returned for ids that are unknown, already consumed,
	// or swept. The three cases are indistinguishable to callers.
	ErrNotFound = errors.New("note not found")

	// ErrIDTaken is returned by PutIfAbsent when the id is bound to a live note.
	ErrIDTaken = errors.New("note id already taken")

	// ErrEmptyBlob is returned when a submission carries no content.
	ErrEmptyBlob = errors.New("note blob is empty")

	// ErrExhaustedRetries is returned when id generation keeps colliding.
	ErrExhaustedRetries = errors.New("exhausted note id retries")
)

// Repository defines the interface for note storage operations.
// Implementations must make each operation atomic with respect to
// concurrent calls touching the same id.
type Repository interface {
	// PutIfAbsent binds the note to its id unless the id is already live,
	// in which case it returns ErrIDTaken and stores nothing.
	PutIfAbsent(ctx context.Context, n *Note) error

	// Take returns the note and removes it in a single step. At most one
	// caller ever sees a given note; everyone else gets ErrNotFound.
	Take(ctx context.Context, id ID) (*Note, error)

	// DeleteOlderThan removes every note created at or before cutoff and
	// reports how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Len reports the number of live notes.
	Len(ctx context.Context) (int, error)
}
