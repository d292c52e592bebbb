package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletwatch/walletwatch/internal/expense"
	"github.com/walletwatch/walletwatch/internal/pending"
	"github.com/walletwatch/walletwatch/internal/user"
)

// Common errors
var (
	ErrInvalidMonth = errors.New("month must be in YYYY-MM format")
	ErrNoPartner    = errors.New("no partner configured for this account")
)

// ExpenseSource provides the monthly expense rows per user
type ExpenseSource interface {
	ListByUserAndMonth(ctx context.Context, userID int64, month string) ([]*expense.Expense, error)
}

// PendingSource provides the pending balance ledger
type PendingSource interface {
	ListByStatus(ctx context.Context, status pending.Status) ([]*pending.PendingBalance, error)
}

// PartnerSource resolves the counterparty of the two-user pair
type PartnerSource interface {
	PartnerOf(ctx context.Context, userID int64) (*user.User, error)
}

// Service composes the settlement summary from the expense ledger and the
// pending balance ledger
type Service struct {
	expenses ExpenseSource
	pendings PendingSource
	partners PartnerSource
}

// NewService creates a new balance service
func NewService(expenses ExpenseSource, pendings PendingSource, partners PartnerSource) *Service {
	return &Service{expenses: expenses, pendings: pendings, partners: partners}
}

// Summary computes the settlement picture for one user and month.
//
// Expenses and pendings are read in separate queries with no snapshot
// isolation, so a summary taken during concurrent writes may reflect a torn
// view of the two ledgers. Acceptable for a two-user household; callers
// refresh to converge.
func (s *Service) Summary(ctx context.Context, userID int64, month string) (*SummaryResponse, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrInvalidMonth
	}

	partner, err := s.partners.PartnerOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNoPartner
	}

	userExpenses, err := s.expenses.ListByUserAndMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	partnerExpenses, err := s.expenses.ListByUserAndMonth(ctx, partner.ID, month)
	if err != nil {
		return nil, err
	}

	// Pending balances only decorate the summary; a failed read degrades to
	// an empty ledger rather than failing the whole dashboard.
	actives, err := s.pendings.ListByStatus(ctx, pending.StatusActive)
	if err != nil {
		slog.Warn("degrading settlement summary: pending balances unavailable",
			"user_id", userID, "error", err)
		actives = nil
	}

	userTotal := TotalFor(userExpenses)
	partnerTotal := TotalFor(partnerExpenses)
	shared := SharedBalance(userTotal, partnerTotal)
	pendingPos := NetPending(userID, actives)
	totalSettlement := shared.Balance.Add(pendingPos.Net)
	direction := Classify(totalSettlement)

	activeForUser := make([]*pending.PendingBalanceResponse, 0)
	for _, pb := range actives {
		if pb.CreditorID == userID || pb.DebtorID == userID {
			activeForUser = append(activeForUser, pb.ToResponse())
		}
	}

	return &SummaryResponse{
		Month:           month,
		UserID:          userID,
		PartnerID:       partner.ID,
		PartnerName:     partner.Username,
		UserTotal:       userTotal,
		PartnerTotal:    partnerTotal,
		GrandTotal:      shared.GrandTotal,
		EqualShare:      shared.EqualShare,
		SharedBalance:   shared.Balance,
		PendingCredit:   pendingPos.Credit,
		PendingDebt:     pendingPos.Debt,
		NetPending:      pendingPos.Net,
		TotalSettlement: totalSettlement,
		Direction:       direction,
		Message:         settlementMessage(direction, partner.Username, totalSettlement),
		ActivePending:   activeForUser,
	}, nil
}

// settlementMessage renders the single "who owes whom" line shown on the
// dashboard
func settlementMessage(direction Direction, partnerName string, total decimal.Decimal) string {
	switch direction {
	case DirectionPartnerOwes:
		return fmt.Sprintf("%s owes you ₹%s", partnerName, total.Abs().StringFixed(2))
	case DirectionUserOwes:
		return fmt.Sprintf("You owe %s ₹%s", partnerName, total.Abs().StringFixed(2))
	default:
		return fmt.Sprintf("You and %s are settled up", partnerName)
	}
}
