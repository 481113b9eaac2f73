package handlers_test

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/burnnote-go/internal/note"
)

var errMock = errors.New("mock error")

// mockRepo is a note.Repository double that can be configured to fail.
type mockRepo struct {
	putErr  error
	takeErr error
}

func (m *mockRepo) PutIfAbsent(_ context.Context, _ *note.Note) error {
	return m.putErr
}

func (m *mockRepo) Take(_ context.Context, _ note.ID) (*note.Note, error) {
	if m.takeErr != nil {
		return nil, m.takeErr
	}

	return nil, note.ErrNotFound
}

func (m *mockRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (m *mockRepo) Len(_ context.Context) (int, error) {
	return 0, nil
}
