package pending

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrAmountNotPositive        = errors.New("amount must be greater than 0")
	ErrMissingField             = errors.New("creditor, debtor, amount, description, and category are required")
	ErrSelfReferential          = errors.New("creditor and debtor cannot be the same user")
	ErrNotFoundOrAlreadySettled = errors.New("pending balance not found or already settled")
	ErrCannotDeleteSettled      = errors.New("pending balance cannot be deleted")
	ErrClearIncomplete          = errors.New("failed to update some cleared balances")
)

// Store defines the persistence operations the ledger needs. Mutations must
// be atomic conditional statements; two users may act on the same balance
// concurrently.
type Store interface {
	Insert(ctx context.Context, pb *PendingBalance) (*PendingBalance, error)
	SettleWhereUnsettled(ctx context.Context, id, settledBy int64) (*PendingBalance, error)
	DeleteWhereUnsettled(ctx context.Context, id, createdBy int64) (bool, error)
	ListByStatus(ctx context.Context, status Status) ([]*PendingBalance, error)
	ListSettledNotClearedFor(ctx context.Context, userID int64) ([]*PendingBalance, error)
	MarkClearedFor(ctx context.Context, id, userID int64) error
}

// ArchiveStore defines the append-only archive used by clear-history
type ArchiveStore interface {
	InsertBatch(ctx context.Context, records []*ArchiveRecord) error
}

// ClearResult reports the outcome of a clear-history operation
type ClearResult struct {
	ClearedCount int
	BatchID      uuid.UUID
}

// Service handles pending balance business logic
type Service struct {
	store   Store
	archive ArchiveStore
}

// NewService creates a new pending balance service
func NewService(store Store, archive ArchiveStore) *Service {
	return &Service{store: store, archive: archive}
}

// Create validates and records a new active pending balance
func (s *Service) Create(ctx context.Context, createdBy int64, req *CreatePendingBalanceRequest) (*PendingBalance, error) {
	if req.CreditorID == 0 || req.DebtorID == 0 || req.Description == "" || req.Category == "" {
		return nil, ErrMissingField
	}
	if !req.Amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if req.CreditorID == req.DebtorID {
		return nil, ErrSelfReferential
	}

	return s.store.Insert(ctx, &PendingBalance{
		CreditorID:  req.CreditorID,
		DebtorID:    req.DebtorID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		CreatedBy:   createdBy,
	})
}

// Settle marks a balance settled exactly once. A missing ID and a balance
// settled by a concurrent request are reported as the same error; the store
// cannot tell them apart and callers have no need to.
func (s *Service) Settle(ctx context.Context, id, settledBy int64) (*PendingBalance, error) {
	settled, err := s.store.SettleWhereUnsettled(ctx, id, settledBy)
	if err != nil {
		return nil, err
	}
	if settled == nil {
		return nil, ErrNotFoundOrAlreadySettled
	}
	return settled, nil
}

// Delete removes a balance while it is still unsettled. Only the creator
// may delete; a settled, missing, or foreign balance all surface as
// ErrCannotDeleteSettled since zero rows matched the conditional delete.
func (s *Service) Delete(ctx context.Context, id, requestedBy int64) error {
	deleted, err := s.store.DeleteWhereUnsettled(ctx, id, requestedBy)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCannotDeleteSettled
	}
	return nil
}

// List retrieves balances by status filter
func (s *Service) List(ctx context.Context, status Status) ([]*PendingBalance, error) {
	if status == "" {
		status = StatusAll
	}
	return s.store.ListByStatus(ctx, status)
}

// History retrieves settled balances still visible to the given user, i.e.
// those the user has not cleared yet
func (s *Service) History(ctx context.Context, userID int64) ([]*PendingBalance, error) {
	return s.store.ListSettledNotClearedFor(ctx, userID)
}

// ClearHistory archives every settled balance the user has not cleared yet
// and then hides each one from the user's history view.
//
// The archive write happens first and covers the whole batch: an unmarked
// but archived balance is merely re-archived on the next clear, whereas a
// marked but unarchived one would silently lose its audit trail. The
// per-balance mark loop is not transactional; if any mark fails the
// operation reports ErrClearIncomplete and never claims success.
func (s *Service) ClearHistory(ctx context.Context, userID int64) (*ClearResult, error) {
	eligible, err := s.store.ListSettledNotClearedFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return &ClearResult{ClearedCount: 0}, nil
	}

	batchID := uuid.New()
	clearedAt := time.Now().UTC()

	records := make([]*ArchiveRecord, 0, len(eligible))
	for _, pb := range eligible {
		if pb.SettledAt == nil || pb.SettledBy == nil {
			// eligible rows are settled by construction
			continue
		}
		records = append(records, &ArchiveRecord{
			OriginalBalanceID: pb.ID,
			CreditorID:        pb.CreditorID,
			DebtorID:          pb.DebtorID,
			Amount:            pb.Amount,
			Description:       pb.Description,
			Category:          pb.Category,
			CreatedBy:         pb.CreatedBy,
			CreatedAt:         pb.CreatedAt,
			SettledAt:         *pb.SettledAt,
			SettledBy:         *pb.SettledBy,
			ClearedBy:         userID,
			ClearedAt:         clearedAt,
			BatchID:           batchID,
		})
	}

	if err := s.archive.InsertBatch(ctx, records); err != nil {
		return nil, err
	}

	marked := 0
	var markErr error
	for _, pb := range eligible {
		if err := s.store.MarkClearedFor(ctx, pb.ID, userID); err != nil {
			slog.Warn("failed to mark balance cleared",
				"balance_id", pb.ID, "user_id", userID, "error", err)
			markErr = err
			continue
		}
		marked++
	}
	if markErr != nil {
		return &ClearResult{ClearedCount: marked, BatchID: batchID}, ErrClearIncomplete
	}

	return &ClearResult{ClearedCount: marked, BatchID: batchID}, nil
}
