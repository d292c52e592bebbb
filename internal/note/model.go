package note

import "time"

// Note is the free-text monthly note; one row per (user, month) pair
type Note struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Month       string    `json:"month"`
	NoteContent string    `json:"note_content"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SaveNoteRequest represents the request to save a monthly note
type SaveNoteRequest struct {
	Month       string `json:"month" validate:"required"`
	NoteContent string `json:"note_content"`
}
