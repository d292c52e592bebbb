package user

import (
	"context"
	"database/sql"
	"fmt"
)

const userColumns = `id, username, email, password_hash, created_at,
	COALESCE(security_question_1, ''), COALESCE(security_answer_1, ''),
	COALESCE(security_question_2, ''), COALESCE(security_answer_2, ''),
	COALESCE(security_question_3, ''), COALESCE(security_answer_3, '')`

// Repository handles user and pair persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user with hashed credentials
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
		INSERT INTO users
			(username, email, password_hash,
			 security_question_1, security_answer_1,
			 security_question_2, security_answer_2,
			 security_question_3, security_answer_3)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash,
		u.SecurityQuestions[0], u.SecurityAnswers[0],
		u.SecurityQuestions[1], u.SecurityAnswers[1],
		u.SecurityQuestions[2], u.SecurityAnswers[2],
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByUsername retrieves a user by username, or (nil, nil) when absent
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getWhere(ctx, "username = $1", username)
}

// GetByEmail retrieves a user by email, or (nil, nil) when absent
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

// GetByID retrieves a user by ID, or (nil, nil) when absent
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *Repository) getWhere(ctx context.Context, where string, arg interface{}) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// UpdatePassword replaces a user's password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateSecurityQuestions replaces a user's recovery questions and answer
// hashes
func (r *Repository) UpdateSecurityQuestions(ctx context.Context, userID int64, questions, answerHashes [3]string) error {
	query := `
		UPDATE users
		SET security_question_1 = $2, security_answer_1 = $3,
		    security_question_2 = $4, security_answer_2 = $5,
		    security_question_3 = $6, security_answer_3 = $7
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, userID,
		questions[0], answerHashes[0],
		questions[1], answerHashes[1],
		questions[2], answerHashes[2],
	); err != nil {
		return fmt.Errorf("failed to update security questions: %w", err)
	}
	return nil
}

// PartnerOf retrieves the other member of the caller's pair, or (nil, nil)
// when the caller is not paired
func (r *Repository) PartnerOf(ctx context.Context, userID int64) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = (
			SELECT CASE WHEN user_a = $1 THEN user_b ELSE user_a END
			FROM pairs
			WHERE user_a = $1 OR user_b = $1
			LIMIT 1
		)
	`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return u, nil
}

// SetPartner records the two-party relationship. The pair is stored with
// the lower ID first so (a, b) and (b, a) hit the same unique row.
func (r *Repository) SetPartner(ctx context.Context, userID, partnerID int64) error {
	a, b := userID, partnerID
	if a > b {
		a, b = b, a
	}

	query := `
		INSERT INTO pairs (user_a, user_b)
		VALUES ($1, $2)
		ON CONFLICT (user_a, user_b) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, a, b); err != nil {
		return fmt.Errorf("failed to set partner: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.SecurityQuestions[0], &u.SecurityAnswers[0],
		&u.SecurityQuestions[1], &u.SecurityAnswers[1],
		&u.SecurityQuestions[2], &u.SecurityAnswers[2],
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}
