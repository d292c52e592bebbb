package pending

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePendingBalanceRequest represents the request to record a new debt
type CreatePendingBalanceRequest struct {
	CreditorID  int64           `json:"creditor_id" validate:"required"`
	DebtorID    int64           `json:"debtor_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=1,max=255"`
	Category    string          `json:"category" validate:"required"`
}

// PendingBalanceResponse represents the response for a pending balance
type PendingBalanceResponse struct {
	ID          int64           `json:"id"`
	CreditorID  int64           `json:"creditor_id"`
	DebtorID    int64           `json:"debtor_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   string          `json:"created_at"`
	SettledAt   *string         `json:"settled_at,omitempty"`
	SettledBy   *int64          `json:"settled_by,omitempty"`
}

// ClearHistoryResponse reports the outcome of a clear-history operation
type ClearHistoryResponse struct {
	Message      string    `json:"message"`
	ClearedCount int       `json:"cleared_count"`
	BatchID      uuid.UUID `json:"batch_id,omitempty"`
}

// ToResponse converts a PendingBalance model to a PendingBalanceResponse DTO
func (p *PendingBalance) ToResponse() *PendingBalanceResponse {
	resp := &PendingBalanceResponse{
		ID:          p.ID,
		CreditorID:  p.CreditorID,
		DebtorID:    p.DebtorID,
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.Category,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		SettledBy:   p.SettledBy,
	}
	if p.SettledAt != nil {
		settledAt := p.SettledAt.Format("2006-01-02T15:04:05Z")
		resp.SettledAt = &settledAt
	}
	return resp
}
