package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/burnnote-go/internal/note"
)

// NoteMemoryStore is an in-memory implementation of note.Repository.
// A single mutex guards the map; every operation is a short map step, so
// nothing suspends while holding it. Insert-or-reject and take-and-delete
// are atomic under the lock.
type NoteMemoryStore struct {
	mu    sync.Mutex
	notes map[note.ID]*note.Note
}

// NewNoteMemoryStore creates a new in-memory note store.
func NewNoteMemoryStore() *NoteMemoryStore {
	return &NoteMemoryStore{
		notes: make(map[note.ID]*note.Note),
	}
}

func (s *NoteMemoryStore) PutIfAbsent(_ context.Context, n *note.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, live := s.notes[n.ID]; live {
		return note.ErrIDTaken
	}

	s.notes[n.ID] = n

	return nil
}

func (s *NoteMemoryStore) Take(_ context.Context, id note.ID) (*note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return nil, note.ErrNotFound
	}

	delete(s.notes, id)

	return n, nil
}

func (s *NoteMemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0

	for id, n := range s.notes {
		if !n.CreatedAt.After(cutoff) {
			delete(s.notes, id)
			removed++
		}
	}

	return removed, nil
}

func (s *NoteMemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.notes), nil
}
