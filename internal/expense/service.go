package expense

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrAmountNotPositive = errors.New("amount must be greater than 0")
	ErrMissingField      = errors.New("amount, category, date, and month are required")
	ErrInvalidMonth      = errors.New("month must be in YYYY-MM format")
	ErrInvalidDate       = errors.New("expense date must be in YYYY-MM-DD format")
	ErrExpenseNotFound   = errors.New("expense not found")
)

// chartMonths is how many trailing months the spending chart covers
const chartMonths = 6

// Service handles expense business logic
type Service struct {
	repo *Repository
}

// NewService creates a new expense service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and logs a new expense for the given user
func (s *Service) Create(ctx context.Context, userID int64, req *CreateExpenseRequest) (*Expense, error) {
	if req.Category == "" || req.ExpenseDate == "" || req.Month == "" {
		return nil, ErrMissingField
	}
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return nil, ErrInvalidMonth
	}
	expenseDate, err := time.Parse("2006-01-02", req.ExpenseDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	return s.repo.Create(ctx, userID, req.Amount, req.Category, req.Description, expenseDate, req.Month)
}

// ListByMonth retrieves all expenses (both users) for a month
func (s *Service) ListByMonth(ctx context.Context, month string) ([]*Expense, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrInvalidMonth
	}
	return s.repo.ListByMonth(ctx, month)
}

// Update modifies an expense; only the owner's update can match a row.
// Unset fields keep their stored values.
func (s *Service) Update(ctx context.Context, id, userID int64, req *UpdateExpenseRequest) (*Expense, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.UserID != userID {
		return nil, ErrExpenseNotFound
	}

	amount := existing.Amount
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrAmountNotPositive
		}
		amount = *req.Amount
	}
	category := existing.Category
	if req.Category != nil {
		if *req.Category == "" {
			return nil, ErrMissingField
		}
		category = *req.Category
	}
	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}
	expenseDate := existing.ExpenseDate
	if req.ExpenseDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.ExpenseDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		expenseDate = parsed
	}

	updated, err := s.repo.Update(ctx, id, userID, amount, category, description, expenseDate)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// deleted between the read and the conditional update
		return nil, ErrExpenseNotFound
	}
	return updated, nil
}

// Delete removes an expense owned by the given user
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}
	return nil
}

// ChartData returns combined spending totals for the chart: the given month
// and the months trailing it
func (s *Service) ChartData(ctx context.Context, month string) ([]*MonthlyTotal, error) {
	anchor, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, ErrInvalidMonth
	}

	months := make([]string, 0, chartMonths)
	for i := chartMonths - 1; i >= 0; i-- {
		months = append(months, anchor.AddDate(0, -i, 0).Format("2006-01"))
	}

	totals, err := s.repo.MonthlyTotals(ctx, months)
	if err != nil {
		return nil, err
	}

	points := make([]*MonthlyTotal, len(months))
	for i, m := range months {
		points[i] = &MonthlyTotal{Month: m, Total: totals[m]}
	}
	return points, nil
}
