package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresConnection opens a PostgreSQL connection, verifies it and runs
// the startup migration.
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// migrate creates the schema if it does not exist yet
func migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			security_question_1 TEXT,
			security_answer_1 TEXT,
			security_question_2 TEXT,
			security_answer_2 TEXT,
			security_question_3 TEXT,
			security_answer_3 TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS pairs (
			id BIGSERIAL PRIMARY KEY,
			user_a BIGINT NOT NULL REFERENCES users(id),
			user_b BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT pairs_distinct_users CHECK (user_a <> user_b),
			CONSTRAINT pairs_unique_members UNIQUE (user_a, user_b)
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			expense_date DATE NOT NULL,
			month TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS expenses_month_idx ON expenses (month)`,
		`CREATE TABLE IF NOT EXISTS monthly_notes (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			month TEXT NOT NULL,
			note_content TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT monthly_notes_user_month UNIQUE (user_id, month)
		)`,
		`CREATE TABLE IF NOT EXISTS pending_balances (
			id BIGSERIAL PRIMARY KEY,
			creditor_id BIGINT NOT NULL REFERENCES users(id),
			debtor_id BIGINT NOT NULL REFERENCES users(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			created_by BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			settled_at TIMESTAMPTZ,
			settled_by BIGINT REFERENCES users(id),
			cleared_for BIGINT[] NOT NULL DEFAULT '{}',
			CONSTRAINT pending_balances_distinct_parties CHECK (creditor_id <> debtor_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pending_balances_archive (
			id BIGSERIAL PRIMARY KEY,
			original_balance_id BIGINT NOT NULL,
			creditor_id BIGINT NOT NULL,
			debtor_id BIGINT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			created_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			settled_at TIMESTAMPTZ NOT NULL,
			settled_by BIGINT NOT NULL,
			cleared_by BIGINT NOT NULL,
			cleared_at TIMESTAMPTZ NOT NULL,
			batch_id UUID NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS pending_balances_archive_batch_idx ON pending_balances_archive (batch_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w", err)
		}
	}

	return nil
}
