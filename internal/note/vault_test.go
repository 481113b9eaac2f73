package note_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/serroba/burnnote-go/internal/note"
	"github.com/serroba/burnnote-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVault(repo note.Repository) *note.Vault {
	gen, _ := note.NewGenerator(note.DefaultIDLength)

	return note.NewVault(repo, gen, zap.NewNop())
}

func TestVault_Submit(t *testing.T) {
	t.Run("stores blob and returns note with fresh id", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		n, err := vault.Submit(context.Background(), []byte("ciphertext"))

		require.NoError(t, err)
		assert.Len(t, string(n.ID), note.DefaultIDLength)
		assert.Equal(t, []byte("ciphertext"), n.Blob)
		assert.False(t, n.CreatedAt.IsZero())
	})

	t.Run("rejects empty blob", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		n, err := vault.Submit(context.Background(), nil)

		assert.Nil(t, n)
		assert.ErrorIs(t, err, note.ErrEmptyBlob)
	})

	t.Run("generates distinct ids for identical blobs", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		n1, err1 := vault.Submit(context.Background(), []byte("same"))
		n2, err2 := vault.Submit(context.Background(), []byte("same"))

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, n1.ID, n2.ID)
	})

	t.Run("retries on collision and succeeds", func(t *testing.T) {
		repo := &mockRepo{collisions: 2}
		vault := newTestVault(repo)

		n, err := vault.Submit(context.Background(), []byte("ciphertext"))

		require.NoError(t, err)
		assert.NotNil(t, n)
		assert.Equal(t, 3, repo.putAttempts)
	})

	t.Run("gives up after exhausting collision retries", func(t *testing.T) {
		repo := &mockRepo{collisions: 100}
		vault := newTestVault(repo)

		n, err := vault.Submit(context.Background(), []byte("ciphertext"))

		assert.Nil(t, n)
		assert.ErrorIs(t, err, note.ErrExhaustedRetries)
		assert.Equal(t, 5, repo.putAttempts)
	})

	t.Run("concurrent submissions yield distinct retrievable ids", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		const submitters = 32

		var wg sync.WaitGroup

		ids := make(chan note.ID, submitters)

		for i := range submitters {
			wg.Add(1)

			go func() {
				defer wg.Done()

				n, err := vault.Submit(context.Background(), []byte(fmt.Sprintf("blob %d", i)))
				if err == nil {
					ids <- n.ID
				}
			}()
		}

		wg.Wait()
		close(ids)

		seen := make(map[note.ID]bool)
		for id := range ids {
			seen[id] = true
		}

		require.Len(t, seen, submitters)

		for id := range seen {
			_, err := vault.Retrieve(context.Background(), id)
			require.NoError(t, err)

			_, err = vault.Retrieve(context.Background(), id)
			assert.ErrorIs(t, err, note.ErrNotFound)
		}
	})

	t.Run("stops retrying when context is cancelled", func(t *testing.T) {
		repo := &mockRepo{collisions: 100}
		vault := newTestVault(repo)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		n, err := vault.Submit(ctx, []byte("ciphertext"))

		assert.Nil(t, n)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, repo.putAttempts)
	})

	t.Run("propagates store errors without retrying", func(t *testing.T) {
		repo := &mockRepo{putErr: errMock}
		vault := newTestVault(repo)

		n, err := vault.Submit(context.Background(), []byte("ciphertext"))

		assert.Nil(t, n)
		assert.ErrorIs(t, err, errMock)
		assert.Equal(t, 1, repo.putAttempts)
	})
}

func TestVault_Retrieve(t *testing.T) {
	t.Run("returns blob exactly once", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		stored, err := vault.Submit(context.Background(), []byte("ciphertext"))
		require.NoError(t, err)

		got, err := vault.Retrieve(context.Background(), stored.ID)

		require.NoError(t, err)
		assert.Equal(t, []byte("ciphertext"), got.Blob)
		assert.Equal(t, stored.ID, got.ID)

		// The note is destroyed by the first retrieval.
		_, err = vault.Retrieve(context.Background(), stored.ID)
		assert.ErrorIs(t, err, note.ErrNotFound)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		n, err := vault.Retrieve(context.Background(), "does-not-exist")

		assert.Nil(t, n)
		assert.ErrorIs(t, err, note.ErrNotFound)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		repo := &mockRepo{takeErr: errMock}
		vault := newTestVault(repo)

		n, err := vault.Retrieve(context.Background(), "any")

		assert.Nil(t, n)
		assert.ErrorIs(t, err, errMock)
	})
}

func TestVault_SweepExpired(t *testing.T) {
	t.Run("evicts notes past their ttl", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		vault := newTestVault(store.NewNoteMemoryStore()).
			WithClock(func() time.Time { return now })

		stored, err := vault.Submit(context.Background(), []byte("ciphertext"))
		require.NoError(t, err)

		// One hour past the 24h TTL.
		now = now.Add(25 * time.Hour)

		removed, err := vault.SweepExpired(context.Background(), 24*time.Hour)

		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = vault.Retrieve(context.Background(), stored.ID)
		assert.ErrorIs(t, err, note.ErrNotFound)
	})

	t.Run("keeps notes younger than the ttl", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		vault := newTestVault(store.NewNoteMemoryStore()).
			WithClock(func() time.Time { return now })

		stored, err := vault.Submit(context.Background(), []byte("ciphertext"))
		require.NoError(t, err)

		now = now.Add(23 * time.Hour)

		removed, err := vault.SweepExpired(context.Background(), 24*time.Hour)

		require.NoError(t, err)
		assert.Equal(t, 0, removed)

		got, err := vault.Retrieve(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("ciphertext"), got.Blob)
	})

	t.Run("consumed notes never count as swept", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		vault := newTestVault(store.NewNoteMemoryStore()).
			WithClock(func() time.Time { return now })

		stored, err := vault.Submit(context.Background(), []byte("ciphertext"))
		require.NoError(t, err)

		_, err = vault.Retrieve(context.Background(), stored.ID)
		require.NoError(t, err)

		now = now.Add(48 * time.Hour)

		removed, err := vault.SweepExpired(context.Background(), 24*time.Hour)

		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})

	t.Run("periodic ticks evict only once the age reaches the ttl", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		now := start
		vault := newTestVault(store.NewNoteMemoryStore()).
			WithClock(func() time.Time { return now })

		stored, err := vault.Submit(context.Background(), []byte("abc"))
		require.NoError(t, err)

		// Sweeping every 5 hours against a 24 hour ttl: the first four
		// ticks leave the note alone, the tick at 25 hours evicts it.
		for tick := 1; tick <= 4; tick++ {
			now = start.Add(time.Duration(tick) * 5 * time.Hour)

			removed, err := vault.SweepExpired(context.Background(), 24*time.Hour)
			require.NoError(t, err)
			assert.Equal(t, 0, removed)
		}

		now = start.Add(25 * time.Hour)

		removed, err := vault.SweepExpired(context.Background(), 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		_, err = vault.Retrieve(context.Background(), stored.ID)
		assert.ErrorIs(t, err, note.ErrNotFound)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		_, err := vault.SweepExpired(context.Background(), 0)

		assert.Error(t, err)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		repo := &mockRepo{deleteErr: errMock}
		vault := newTestVault(repo)

		_, err := vault.SweepExpired(context.Background(), time.Hour)

		assert.ErrorIs(t, err, errMock)
	})
}

func TestVault_Live(t *testing.T) {
	t.Run("reports the number of held notes", func(t *testing.T) {
		vault := newTestVault(store.NewNoteMemoryStore())

		_, err := vault.Submit(context.Background(), []byte("one"))
		require.NoError(t, err)
		_, err = vault.Submit(context.Background(), []byte("two"))
		require.NoError(t, err)

		n, err := vault.Live(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
