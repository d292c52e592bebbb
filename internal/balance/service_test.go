package balance

import (
	"context"
	"errors"
	"testing"

	"github.com/walletwatch/walletwatch/internal/expense"
	"github.com/walletwatch/walletwatch/internal/pending"
	"github.com/walletwatch/walletwatch/internal/user"
)

type fakeExpenseSource struct {
	byUser map[int64][]*expense.Expense
	err    error
}

func (f *fakeExpenseSource) ListByUserAndMonth(_ context.Context, userID int64, _ string) ([]*expense.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

type fakePendingSource struct {
	actives []*pending.PendingBalance
	err     error
}

func (f *fakePendingSource) ListByStatus(_ context.Context, _ pending.Status) ([]*pending.PendingBalance, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.actives, nil
}

type fakePartnerSource struct {
	partners map[int64]*user.User
}

func (f *fakePartnerSource) PartnerOf(_ context.Context, userID int64) (*user.User, error) {
	return f.partners[userID], nil
}

func pairedPartners() *fakePartnerSource {
	return &fakePartnerSource{partners: map[int64]*user.User{
		soumyansh: {ID: anu, Username: "Anu"},
		anu:       {ID: soumyansh, Username: "Soumyansh"},
	}}
}

func TestSummary(t *testing.T) {
	expenses := &fakeExpenseSource{byUser: map[int64][]*expense.Expense{
		soumyansh: expensesOf("600", "400"),
		anu:       expensesOf("400"),
	}}
	pendings := &fakePendingSource{actives: []*pending.PendingBalance{
		activePending(anu, soumyansh, "50"),
	}}
	service := NewService(expenses, pendings, pairedPartners())

	summary, err := service.Summary(context.Background(), soumyansh, "2025-07")
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}

	if !summary.UserTotal.Equal(dec("1000")) {
		t.Errorf("UserTotal = %s, want 1000", summary.UserTotal)
	}
	if !summary.PartnerTotal.Equal(dec("400")) {
		t.Errorf("PartnerTotal = %s, want 400", summary.PartnerTotal)
	}
	if !summary.GrandTotal.Equal(dec("1400")) {
		t.Errorf("GrandTotal = %s, want 1400", summary.GrandTotal)
	}
	if !summary.EqualShare.Equal(dec("700")) {
		t.Errorf("EqualShare = %s, want 700", summary.EqualShare)
	}
	if !summary.SharedBalance.Equal(dec("300")) {
		t.Errorf("SharedBalance = %s, want 300", summary.SharedBalance)
	}
	if !summary.NetPending.Equal(dec("-50")) {
		t.Errorf("NetPending = %s, want -50", summary.NetPending)
	}
	if !summary.TotalSettlement.Equal(dec("250")) {
		t.Errorf("TotalSettlement = %s, want 250", summary.TotalSettlement)
	}
	if summary.Direction != DirectionPartnerOwes {
		t.Errorf("Direction = %s, want %s", summary.Direction, DirectionPartnerOwes)
	}
	if summary.Message != "Anu owes you ₹250.00" {
		t.Errorf("Message = %q", summary.Message)
	}
	if len(summary.ActivePending) != 1 {
		t.Errorf("ActivePending has %d entries, want 1", len(summary.ActivePending))
	}
}

func TestSummaryPerspectivesMirror(t *testing.T) {
	expenses := &fakeExpenseSource{byUser: map[int64][]*expense.Expense{
		soumyansh: expensesOf("1000"),
		anu:       expensesOf("400"),
	}}
	pendings := &fakePendingSource{actives: []*pending.PendingBalance{
		activePending(soumyansh, anu, "150"),
		activePending(anu, soumyansh, "25.50"),
	}}
	service := NewService(expenses, pendings, pairedPartners())
	ctx := context.Background()

	mine, err := service.Summary(ctx, soumyansh, "2025-07")
	if err != nil {
		t.Fatalf("Summary(soumyansh) error: %v", err)
	}
	theirs, err := service.Summary(ctx, anu, "2025-07")
	if err != nil {
		t.Fatalf("Summary(anu) error: %v", err)
	}

	if !mine.TotalSettlement.Add(theirs.TotalSettlement).IsZero() {
		t.Errorf("settlements do not mirror: %s vs %s", mine.TotalSettlement, theirs.TotalSettlement)
	}
	if !mine.GrandTotal.Equal(theirs.GrandTotal) {
		t.Errorf("grand totals differ: %s vs %s", mine.GrandTotal, theirs.GrandTotal)
	}
}

func TestSummaryDegradesWithoutPendingLedger(t *testing.T) {
	expenses := &fakeExpenseSource{byUser: map[int64][]*expense.Expense{
		soumyansh: expensesOf("100"),
		anu:       expensesOf("100"),
	}}
	pendings := &fakePendingSource{err: errors.New("store down")}
	service := NewService(expenses, pendings, pairedPartners())

	summary, err := service.Summary(context.Background(), soumyansh, "2025-07")
	if err != nil {
		t.Fatalf("Summary() error: %v, want degraded success", err)
	}
	if !summary.NetPending.IsZero() {
		t.Errorf("NetPending = %s, want 0 after degradation", summary.NetPending)
	}
	if summary.Direction != DirectionBalanced {
		t.Errorf("Direction = %s, want %s", summary.Direction, DirectionBalanced)
	}
	if len(summary.ActivePending) != 0 {
		t.Errorf("ActivePending has %d entries, want 0", len(summary.ActivePending))
	}
}

func TestSummaryErrors(t *testing.T) {
	expenses := &fakeExpenseSource{byUser: map[int64][]*expense.Expense{}}
	pendings := &fakePendingSource{}

	t.Run("invalid month", func(t *testing.T) {
		service := NewService(expenses, pendings, pairedPartners())
		if _, err := service.Summary(context.Background(), soumyansh, "July 2025"); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("Summary() error = %v, want ErrInvalidMonth", err)
		}
	})

	t.Run("no partner", func(t *testing.T) {
		service := NewService(expenses, pendings, &fakePartnerSource{partners: map[int64]*user.User{}})
		if _, err := service.Summary(context.Background(), soumyansh, "2025-07"); !errors.Is(err, ErrNoPartner) {
			t.Errorf("Summary() error = %v, want ErrNoPartner", err)
		}
	})

	t.Run("expense read failure is not degraded", func(t *testing.T) {
		service := NewService(&fakeExpenseSource{err: errors.New("store down")}, pendings, pairedPartners())
		if _, err := service.Summary(context.Background(), soumyansh, "2025-07"); err == nil {
			t.Error("Summary() with failing expense source returned nil error")
		}
	})
}
