package note

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles monthly note persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new note repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates or replaces the note for a (user, month) pair
func (r *Repository) Upsert(ctx context.Context, userID int64, month, content string) (*Note, error) {
	query := `
		INSERT INTO monthly_notes (user_id, month, note_content, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, month)
		DO UPDATE SET note_content = EXCLUDED.note_content, updated_at = now()
		RETURNING id, user_id, month, note_content, updated_at
	`

	note := &Note{}
	err := r.db.QueryRowContext(ctx, query, userID, month, content).Scan(
		&note.ID,
		&note.UserID,
		&note.Month,
		&note.NoteContent,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	return note, nil
}

// GetByUserAndMonth retrieves a note, or (nil, nil) when none exists
func (r *Repository) GetByUserAndMonth(ctx context.Context, userID int64, month string) (*Note, error) {
	query := `
		SELECT id, user_id, month, note_content, updated_at
		FROM monthly_notes
		WHERE user_id = $1 AND month = $2
	`

	note := &Note{}
	err := r.db.QueryRowContext(ctx, query, userID, month).Scan(
		&note.ID,
		&note.UserID,
		&note.Month,
		&note.NoteContent,
		&note.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}
