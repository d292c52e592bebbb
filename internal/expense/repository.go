package expense

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, user_id, amount, category, description, expense_date, month, created_at, updated_at`

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new expense into the database
func (r *Repository) Create(ctx context.Context, userID int64, amount decimal.Decimal, category, description string, expenseDate time.Time, month string) (*Expense, error) {
	query := `
		INSERT INTO expenses (user_id, amount, category, description, expense_date, month)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + expenseColumns

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query,
		userID, amount, category, description, expenseDate, month))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

// ListByMonth retrieves all expenses for a month, both users, newest first
func (r *Repository) ListByMonth(ctx context.Context, month string) ([]*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE month = $1
		ORDER BY expense_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// ListByUserAndMonth retrieves one user's expenses for a month
func (r *Repository) ListByUserAndMonth(ctx context.Context, userID int64, month string) ([]*Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND month = $2
		ORDER BY expense_date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows)
}

// Update modifies an expense. The statement filters on user_id so only the
// owner's rows can match; returns (nil, nil) when nothing matched.
func (r *Repository) Update(ctx context.Context, id, userID int64, amount decimal.Decimal, category, description string, expenseDate time.Time) (*Expense, error) {
	query := `
		UPDATE expenses
		SET amount = $3, category = $4, description = $5, expense_date = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + expenseColumns

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query,
		id, userID, amount, category, description, expenseDate))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return expense, nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// Delete removes an expense, filtered on owner in the statement itself.
// Returns whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// MonthlyTotals sums expenses across both users for each of the given
// months. Months with no expenses are absent from the result map.
func (r *Repository) MonthlyTotals(ctx context.Context, months []string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT month, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE month = ANY($1)
		GROUP BY month
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(months))
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var month string
		var total decimal.Decimal
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals[month] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly totals: %w", err)
	}

	return totals, nil
}

func scanExpense(row *sql.Row) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Amount,
		&e.Category,
		&e.Description,
		&e.ExpenseDate,
		&e.Month,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func collectExpenses(rows *sql.Rows) ([]*Expense, error) {
	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Amount,
			&e.Category,
			&e.Description,
			&e.ExpenseDate,
			&e.Month,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
