package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/burnnote-go/internal/ratelimit"
)

// RegisterRoutes registers the note routes with their admission scopes.
func RegisterRoutes(api huma.API, noteHandler *NoteHandler) {
	// POST /notes - store a note
	// Submissions count against the stricter write quota
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/notes",
		Summary:       "Store a note",
		Description:   "Stores a client-encrypted blob and returns the id for its one-time read link.",
		Tags:          []string{"Notes"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Scope: ratelimit.ScopeWrite,
			},
		},
	}, noteHandler.CreateNote)

	// GET /notes/{id} - consume a note
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/notes/{id}",
		Summary:     "Read a note once",
		Description: "Returns the blob and destroys the note in the same step; any later read gets a 404.",
		Tags:        []string{"Notes"},
	}, noteHandler.ReadNote)
}
