package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletwatch/walletwatch/internal/expense"
	"github.com/walletwatch/walletwatch/internal/pending"
)

const (
	soumyansh int64 = 1
	anu       int64 = 2
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func expensesOf(amounts ...string) []*expense.Expense {
	out := make([]*expense.Expense, len(amounts))
	for i, a := range amounts {
		out[i] = &expense.Expense{Amount: dec(a)}
	}
	return out
}

func activePending(creditor, debtor int64, amount string) *pending.PendingBalance {
	return &pending.PendingBalance{CreditorID: creditor, DebtorID: debtor, Amount: dec(amount)}
}

func settledPending(creditor, debtor int64, amount string) *pending.PendingBalance {
	pb := activePending(creditor, debtor, amount)
	now := time.Now()
	pb.SettledAt = &now
	pb.SettledBy = &debtor
	return pb
}

func TestTotalFor(t *testing.T) {
	tests := []struct {
		name     string
		expenses []*expense.Expense
		want     string
	}{
		{name: "empty list totals zero", expenses: nil, want: "0"},
		{name: "single expense", expenses: expensesOf("250.50"), want: "250.50"},
		{name: "several expenses", expenses: expensesOf("100", "200.25", "0.75"), want: "301.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalFor(tt.expenses)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("TotalFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSharedBalance(t *testing.T) {
	tests := []struct {
		name           string
		userTotal      string
		otherTotal     string
		wantGrandTotal string
		wantEqualShare string
		wantBalance    string
	}{
		{
			// 1000 vs 400: partner owes the user 300
			name:           "user spent more",
			userTotal:      "1000",
			otherTotal:     "400",
			wantGrandTotal: "1400",
			wantEqualShare: "700",
			wantBalance:    "300",
		},
		{
			name:           "user spent less",
			userTotal:      "400",
			otherTotal:     "1000",
			wantGrandTotal: "1400",
			wantEqualShare: "700",
			wantBalance:    "-300",
		},
		{
			name:           "equal spending",
			userTotal:      "512.34",
			otherTotal:     "512.34",
			wantGrandTotal: "1024.68",
			wantEqualShare: "512.34",
			wantBalance:    "0",
		},
		{
			name:           "both zero",
			userTotal:      "0",
			otherTotal:     "0",
			wantGrandTotal: "0",
			wantEqualShare: "0",
			wantBalance:    "0",
		},
		{
			name:           "odd paisa split stays exact",
			userTotal:      "0.03",
			otherTotal:     "0",
			wantGrandTotal: "0.03",
			wantEqualShare: "0.015",
			wantBalance:    "0.015",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SharedBalance(dec(tt.userTotal), dec(tt.otherTotal))
			if !got.GrandTotal.Equal(dec(tt.wantGrandTotal)) {
				t.Errorf("GrandTotal = %s, want %s", got.GrandTotal, tt.wantGrandTotal)
			}
			if !got.EqualShare.Equal(dec(tt.wantEqualShare)) {
				t.Errorf("EqualShare = %s, want %s", got.EqualShare, tt.wantEqualShare)
			}
			if !got.Balance.Equal(dec(tt.wantBalance)) {
				t.Errorf("Balance = %s, want %s", got.Balance, tt.wantBalance)
			}
		})
	}
}

func TestSharedBalanceAntisymmetry(t *testing.T) {
	pairs := [][2]string{
		{"1000", "400"},
		{"0", "0"},
		{"123.45", "678.90"},
		{"0.01", "99999.99"},
		{"33.33", "66.67"},
	}

	for _, p := range pairs {
		a, b := dec(p[0]), dec(p[1])
		forward := SharedBalance(a, b).Balance
		backward := SharedBalance(b, a).Balance
		if !forward.Add(backward).IsZero() {
			t.Errorf("sharedBalance(%s,%s) + sharedBalance(%s,%s) = %s, want 0",
				a, b, b, a, forward.Add(backward))
		}
	}
}

func TestNetPending(t *testing.T) {
	balances := []*pending.PendingBalance{
		activePending(soumyansh, anu, "150"),
		activePending(anu, soumyansh, "40.50"),
		activePending(soumyansh, anu, "9.50"),
		settledPending(soumyansh, anu, "1000"), // settled, never counted
	}

	got := NetPending(soumyansh, balances)
	if !got.Credit.Equal(dec("159.50")) {
		t.Errorf("Credit = %s, want 159.50", got.Credit)
	}
	if !got.Debt.Equal(dec("40.50")) {
		t.Errorf("Debt = %s, want 40.50", got.Debt)
	}
	if !got.Net.Equal(dec("119")) {
		t.Errorf("Net = %s, want 119", got.Net)
	}
}

func TestNetPendingConservation(t *testing.T) {
	// Every active record is between the same two users, so the two
	// perspectives must be exact negatives of each other.
	balances := []*pending.PendingBalance{
		activePending(soumyansh, anu, "150"),
		activePending(anu, soumyansh, "75.25"),
		activePending(anu, soumyansh, "0.01"),
		activePending(soumyansh, anu, "9999.99"),
	}

	mine := NetPending(soumyansh, balances).Net
	theirs := NetPending(anu, balances).Net
	if !mine.Add(theirs).IsZero() {
		t.Errorf("netPending(U) + netPending(V) = %s, want 0", mine.Add(theirs))
	}
}

func TestNetPendingEmptyLedger(t *testing.T) {
	got := NetPending(soumyansh, nil)
	if !got.Net.IsZero() || !got.Credit.IsZero() || !got.Debt.IsZero() {
		t.Errorf("NetPending(empty) = %+v, want all zero", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		total string
		want  Direction
	}{
		{name: "exact zero", total: "0", want: DirectionBalanced},
		{name: "inside tolerance positive", total: "0.009", want: DirectionBalanced},
		{name: "inside tolerance negative", total: "-0.009", want: DirectionBalanced},
		{name: "at tolerance boundary", total: "0.01", want: DirectionPartnerOwes},
		{name: "partner owes", total: "300", want: DirectionPartnerOwes},
		{name: "user owes", total: "-150", want: DirectionUserOwes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(dec(tt.total)); got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.total, got, tt.want)
			}
		})
	}
}

func TestSettlementComposition(t *testing.T) {
	// sharedBalance(U) = -300 and one active pending of 150 in U's favor:
	// total settlement is -150, i.e. U owes V 150.
	shared := SharedBalance(dec("400"), dec("1000"))
	if !shared.Balance.Equal(dec("-300")) {
		t.Fatalf("shared balance = %s, want -300", shared.Balance)
	}

	pendingPos := NetPending(soumyansh, []*pending.PendingBalance{
		activePending(soumyansh, anu, "150"),
	})
	if !pendingPos.Net.Equal(dec("150")) {
		t.Fatalf("net pending = %s, want 150", pendingPos.Net)
	}

	total := shared.Balance.Add(pendingPos.Net)
	if !total.Equal(dec("-150")) {
		t.Errorf("total settlement = %s, want -150", total)
	}
	if got := Classify(total); got != DirectionUserOwes {
		t.Errorf("Classify(%s) = %s, want %s", total, got, DirectionUserOwes)
	}
}
