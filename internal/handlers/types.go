package handlers

import "time"

// CreateNoteRequest is the request body for storing a note.
type CreateNoteRequest struct {
	Body struct {
		Blob []byte `doc:"Client-encrypted note content, base64 encoded" example:"U2FsdGVkX19zZWNyZXQ=" json:"blob"`
	}
}

// CreateNoteResponse is the response for a successfully stored note.
type CreateNoteResponse struct {
	Body struct {
		ID        string     `doc:"Opaque id for the one-time read link" example:"V1StGXR8_Z5jdHi6B-myT" json:"id"`
		ExpiresAt *time.Time `doc:"When the unread note will be swept"   json:"expiresAt,omitempty"`
	}
}

// ReadNoteRequest identifies the note to consume.
type ReadNoteRequest struct {
	ID string `doc:"Note id from the share link" example:"V1StGXR8_Z5jdHi6B-myT" maxLength:"255" minLength:"2" path:"id"`
}

// ReadNoteResponse carries the blob of a consumed note.
type ReadNoteResponse struct {
	Body struct {
		ID   string `doc:"The consumed note id"                          json:"id"`
		Blob []byte `doc:"Client-encrypted note content, base64 encoded" json:"blob"`
	}
}
