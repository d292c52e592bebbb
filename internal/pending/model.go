package pending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status selects which slice of the ledger a listing returns
type Status string

const (
	StatusActive  Status = "active"
	StatusSettled Status = "settled"
	StatusAll     Status = "all"
)

// PendingBalance represents an ad-hoc debt between the two users, tracked
// independently of the monthly expense ledger
type PendingBalance struct {
	ID          int64           `json:"id"`
	CreditorID  int64           `json:"creditor_id"`
	DebtorID    int64           `json:"debtor_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
	SettledBy   *int64          `json:"settled_by,omitempty"`

	// ClearedFor holds the IDs of users who cleared this balance from their
	// history view after settlement. The set only ever grows.
	ClearedFor []int64 `json:"cleared_for"`
}

// Settled reports whether the balance has been marked settled
func (p *PendingBalance) Settled() bool {
	return p.SettledAt != nil
}

// ClearedForUser reports whether the given user has cleared this balance
// from their history view
func (p *PendingBalance) ClearedForUser(userID int64) bool {
	for _, id := range p.ClearedFor {
		if id == userID {
			return true
		}
	}
	return false
}

// ArchiveRecord is an append-only snapshot of a settled balance, taken when
// a user clears their history. Kept for audit only; never read back into
// settlement math.
type ArchiveRecord struct {
	ID                int64           `json:"id"`
	OriginalBalanceID int64           `json:"original_balance_id"`
	CreditorID        int64           `json:"creditor_id"`
	DebtorID          int64           `json:"debtor_id"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	CreatedBy         int64           `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	SettledAt         time.Time       `json:"settled_at"`
	SettledBy         int64           `json:"settled_by"`
	ClearedBy         int64           `json:"cleared_by"`
	ClearedAt         time.Time       `json:"cleared_at"`
	BatchID           uuid.UUID       `json:"batch_id"`
}
