package pending

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const balanceColumns = `id, creditor_id, debtor_id, amount, description, category, created_by, created_at, settled_at, settled_by, cleared_for`

// Repository handles pending balance persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new pending balance repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert creates a new active pending balance
func (r *Repository) Insert(ctx context.Context, pb *PendingBalance) (*PendingBalance, error) {
	query := `
		INSERT INTO pending_balances (creditor_id, debtor_id, amount, description, category, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + balanceColumns

	created, err := scanBalance(r.db.QueryRowContext(ctx, query,
		pb.CreditorID,
		pb.DebtorID,
		pb.Amount,
		pb.Description,
		pb.Category,
		pb.CreatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create pending balance: %w", err)
	}

	return created, nil
}

// SettleWhereUnsettled marks a balance settled in a single conditional
// statement. Returns (nil, nil) when no row matched, which covers both a
// missing ID and a balance already settled by a concurrent request.
func (r *Repository) SettleWhereUnsettled(ctx context.Context, id, settledBy int64) (*PendingBalance, error) {
	query := `
		UPDATE pending_balances
		SET settled_at = now(), settled_by = $2
		WHERE id = $1 AND settled_at IS NULL
		RETURNING ` + balanceColumns

	settled, err := scanBalance(r.db.QueryRowContext(ctx, query, id, settledBy))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to settle pending balance: %w", err)
	}

	return settled, nil
}

// DeleteWhereUnsettled removes a balance only while it is unsettled and
// only for its creator, filtering in the statement itself so a concurrent
// settle cannot race a separate existence check. Returns whether a row was
// deleted.
func (r *Repository) DeleteWhereUnsettled(ctx context.Context, id, createdBy int64) (bool, error) {
	query := `
		DELETE FROM pending_balances
		WHERE id = $1 AND created_by = $2 AND settled_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, createdBy)
	if err != nil {
		return false, fmt.Errorf("failed to delete pending balance: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// ListByStatus retrieves balances filtered by settlement status
func (r *Repository) ListByStatus(ctx context.Context, status Status) ([]*PendingBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM pending_balances`

	switch status {
	case StatusActive:
		query += ` WHERE settled_at IS NULL`
	case StatusSettled:
		query += ` WHERE settled_at IS NOT NULL`
	case StatusAll:
		// no filter
	default:
		return nil, fmt.Errorf("unknown status filter: %s", status)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending balances: %w", err)
	}
	defer rows.Close()

	return collectBalances(rows)
}

// ListSettledNotClearedFor retrieves settled balances the given user has
// not yet cleared from their history view
func (r *Repository) ListSettledNotClearedFor(ctx context.Context, userID int64) ([]*PendingBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM pending_balances
		WHERE settled_at IS NOT NULL AND NOT ($1 = ANY(cleared_for))
		ORDER BY settled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settled balances: %w", err)
	}
	defer rows.Close()

	return collectBalances(rows)
}

// MarkClearedFor appends the user to the balance's cleared_for set. The
// statement guards against duplicates, so the set can only grow and a
// repeated mark is a no-op.
func (r *Repository) MarkClearedFor(ctx context.Context, id, userID int64) error {
	query := `
		UPDATE pending_balances
		SET cleared_for = array_append(cleared_for, $2)
		WHERE id = $1 AND NOT ($2 = ANY(cleared_for))
	`

	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("failed to mark balance cleared: %w", err)
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanBalance
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBalance(s scanner) (*PendingBalance, error) {
	pb := &PendingBalance{}
	var clearedFor pq.Int64Array

	err := s.Scan(
		&pb.ID,
		&pb.CreditorID,
		&pb.DebtorID,
		&pb.Amount,
		&pb.Description,
		&pb.Category,
		&pb.CreatedBy,
		&pb.CreatedAt,
		&pb.SettledAt,
		&pb.SettledBy,
		&clearedFor,
	)
	if err != nil {
		return nil, err
	}

	pb.ClearedFor = []int64(clearedFor)
	return pb, nil
}

func collectBalances(rows *sql.Rows) ([]*PendingBalance, error) {
	var balances []*PendingBalance
	for rows.Next() {
		pb, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending balance: %w", err)
		}
		balances = append(balances, pb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending balances: %w", err)
	}
	return balances, nil
}

// ArchiveRepository handles the append-only archive of cleared balances
type ArchiveRepository struct {
	db *sql.DB
}

// NewArchiveRepository creates a new archive repository
func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// InsertBatch writes all archive records in one transaction so a partial
// archive can never be committed
func (r *ArchiveRepository) InsertBatch(ctx context.Context, records []*ArchiveRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pending_balances_archive
			(original_balance_id, creditor_id, debtor_id, amount, description, category,
			 created_by, created_at, settled_at, settled_by, cleared_by, cleared_at, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.OriginalBalanceID,
			rec.CreditorID,
			rec.DebtorID,
			rec.Amount,
			rec.Description,
			rec.Category,
			rec.CreatedBy,
			rec.CreatedAt,
			rec.SettledAt,
			rec.SettledBy,
			rec.ClearedBy,
			rec.ClearedAt,
			rec.BatchID,
		); err != nil {
			return fmt.Errorf("failed to insert archive record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive batch: %w", err)
	}

	return nil
}
