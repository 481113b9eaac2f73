package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/burnnote-go/internal/messaging"
	"github.com/serroba/burnnote-go/internal/note"
	"github.com/serroba/burnnote-go/internal/stats"
	"go.uber.org/zap"
)

// NoteHandler handles note submission and one-time retrieval.
type NoteHandler struct {
	vault           *note.Vault
	maxNoteBytes    int
	noteTTL         time.Duration
	publishStored   messaging.Publish[stats.NoteStoredEvent]
	publishConsumed messaging.Publish[stats.NoteConsumedEvent]
	logger          *zap.Logger
}

// NewNoteHandler creates a new note handler. A noteTTL of zero means notes
// are never swept and responses omit expiresAt.
func NewNoteHandler(
	vault *note.Vault,
	maxNoteBytes int,
	noteTTL time.Duration,
	publishStored messaging.Publish[stats.NoteStoredEvent],
	publishConsumed messaging.Publish[stats.NoteConsumedEvent],
	logger *zap.Logger,
) *NoteHandler {
	return &NoteHandler{
		vault:           vault,
		maxNoteBytes:    maxNoteBytes,
		noteTTL:         noteTTL,
		publishStored:   publishStored,
		publishConsumed: publishConsumed,
		logger:          logger,
	}
}

func (h *NoteHandler) CreateNote(ctx context.Context, req *CreateNoteRequest) (*CreateNoteResponse, error) {
	if len(req.Body.Blob) == 0 {
		return nil, huma.Error400BadRequest("blob must not be empty")
	}

	if len(req.Body.Blob) > h.maxNoteBytes {
		return nil, huma.NewError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("blob exceeds the %d byte limit", h.maxNoteBytes))
	}

	n, err := h.vault.Submit(ctx, req.Body.Blob)
	if err != nil {
		if errors.Is(err, note.ErrEmptyBlob) {
			return nil, huma.Error400BadRequest("blob must not be empty")
		}

		h.logger.Error("failed to store note", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to store note")
	}

	event := &stats.NoteStoredEvent{
		ID:        string(n.ID),
		SizeBytes: len(n.Blob),
		CreatedAt: n.CreatedAt,
	}

	if err := h.publishStored(event); err != nil {
		h.logger.Error("failed to publish note stored event",
			zap.String("id", event.ID),
			zap.Error(err),
		)
	}

	resp := &CreateNoteResponse{}
	resp.Body.ID = string(n.ID)

	if h.noteTTL > 0 {
		expires := n.CreatedAt.Add(h.noteTTL)
		resp.Body.ExpiresAt = &expires
	}

	return resp, nil
}

func (h *NoteHandler) ReadNote(ctx context.Context, req *ReadNoteRequest) (*ReadNoteResponse, error) {
	n, err := h.vault.Retrieve(ctx, note.ID(req.ID))
	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			// Unknown, consumed, and swept ids are indistinguishable on purpose.
			return nil, huma.Error404NotFound("note not found")
		}

		h.logger.Error("failed to retrieve note", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to retrieve note")
	}

	event := &stats.NoteConsumedEvent{
		ID:         string(n.ID),
		SizeBytes:  len(n.Blob),
		StoredAt:   n.CreatedAt,
		ConsumedAt: time.Now(),
	}

	if err := h.publishConsumed(event); err != nil {
		h.logger.Error("failed to publish note consumed event",
			zap.String("id", event.ID),
			zap.Error(err),
		)
	}

	resp := &ReadNoteResponse{}
	resp.Body.ID = string(n.ID)
	resp.Body.Blob = n.Blob

	return resp, nil
}
