package note_test

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/burnnote-go/internal/note"
)

var errMock = errors.New("mock error")

// mockRepo is a test double for note.Repository that can be configured to
// collide or fail a set number of times.
type mockRepo struct {
	putErr      error
	takeErr     error
	deleteErr   error
	collisions  int // PutIfAbsent returns ErrIDTaken this many times
	putAttempts int
	stored      *note.Note
}

func (m *mockRepo) PutIfAbsent(_ context.Context, n *note.Note) error {
	m.putAttempts++

	if m.putErr != nil {
		return m.putErr
	}

	if m.putAttempts <= m.collisions {
		return note.ErrIDTaken
	}

	m.stored = n

	return nil
}

func (m *mockRepo) Take(_ context.Context, _ note.ID) (*note.Note, error) {
	if m.takeErr != nil {
		return nil, m.takeErr
	}

	if m.stored == nil {
		return nil, note.ErrNotFound
	}

	n := m.stored
	m.stored = nil

	return n, nil
}

func (m *mockRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}

	if m.stored != nil && !m.stored.CreatedAt.After(cutoff) {
		m.stored = nil

		return 1, nil
	}

	return 0, nil
}

func (m *mockRepo) Len(_ context.Context) (int, error) {
	if m.stored != nil {
		return 1, nil
	}

	return 0, nil
}
