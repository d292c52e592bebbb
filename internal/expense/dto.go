package expense

import "github.com/shopspring/decimal"

// CreateExpenseRequest represents the request to log an expense
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date" validate:"required"` // YYYY-MM-DD
	Month       string          `json:"month" validate:"required"`        // YYYY-MM
}

// UpdateExpenseRequest represents the request to update an expense. Nil
// fields are left unchanged.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	ExpenseDate *string          `json:"expense_date,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ExpenseDate string          `json:"expense_date"`
	Month       string          `json:"month"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate.Format("2006-01-02"),
		Month:       e.Month,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
