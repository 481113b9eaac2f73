package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/burnnote-go/internal/stats"
	"github.com/serroba/burnnote-go/internal/stats/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewNoop(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	assert.NotNil(t, noop)
}

func TestNoop_SaveNoteStored(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	event := &stats.NoteStoredEvent{
		ID:        "abc123",
		SizeBytes: 512,
		CreatedAt: time.Now(),
	}

	err := noop.SaveNoteStored(context.Background(), event)

	require.NoError(t, err)
}

func TestNoop_SaveNoteConsumed(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	event := &stats.NoteConsumedEvent{
		ID:         "abc123",
		SizeBytes:  512,
		StoredAt:   time.Now().Add(-time.Minute),
		ConsumedAt: time.Now(),
	}

	err := noop.SaveNoteConsumed(context.Background(), event)

	require.NoError(t, err)
}

func TestNoop_SaveSweepCompleted(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	event := &stats.SweepCompletedEvent{
		Removed: 3,
		TTL:     24 * time.Hour,
		SweptAt: time.Now(),
	}

	err := noop.SaveSweepCompleted(context.Background(), event)

	require.NoError(t, err)
}
