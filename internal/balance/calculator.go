package balance

import (
	"github.com/shopspring/decimal"

	"github.com/walletwatch/walletwatch/internal/expense"
	"github.com/walletwatch/walletwatch/internal/pending"
)

// Direction classifies who owes whom
type Direction string

const (
	DirectionBalanced    Direction = "BALANCED"
	DirectionPartnerOwes Direction = "PARTNER_OWES"
	DirectionUserOwes    Direction = "USER_OWES"
)

// balancedTolerance absorbs rounding in two-decimal currency input; amounts
// within it are treated as settled up
var balancedTolerance = decimal.NewFromFloat(0.01)

// two is the fixed equal-split divisor of the two-user household
var two = decimal.NewFromInt(2)

// SharedBreakdown is the equal-split result for one month
type SharedBreakdown struct {
	GrandTotal decimal.Decimal
	EqualShare decimal.Decimal

	// Balance is signed from the user's perspective: positive means the
	// partner owes the user, negative means the user owes the partner
	Balance decimal.Decimal
}

// PendingBreakdown is a user's position across active pending balances
type PendingBreakdown struct {
	Credit decimal.Decimal
	Debt   decimal.Decimal
	Net    decimal.Decimal
}

// TotalFor sums a list of expense amounts. An empty list totals zero.
func TotalFor(expenses []*expense.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// SharedBalance splits the combined monthly spend equally between the two
// users and returns the signed delta from the user's perspective
func SharedBalance(userTotal, otherTotal decimal.Decimal) SharedBreakdown {
	grandTotal := userTotal.Add(otherTotal)
	equalShare := grandTotal.Div(two)

	return SharedBreakdown{
		GrandTotal: grandTotal,
		EqualShare: equalShare,
		Balance:    userTotal.Sub(equalShare),
	}
}

// NetPending sums the user's credit and debt across active pending
// balances. Settled balances never contribute, whoever has cleared them.
func NetPending(userID int64, balances []*pending.PendingBalance) PendingBreakdown {
	credit := decimal.Zero
	debt := decimal.Zero

	for _, pb := range balances {
		if pb.Settled() {
			continue
		}
		if pb.CreditorID == userID {
			credit = credit.Add(pb.Amount)
		}
		if pb.DebtorID == userID {
			debt = debt.Add(pb.Amount)
		}
	}

	return PendingBreakdown{
		Credit: credit,
		Debt:   debt,
		Net:    credit.Sub(debt),
	}
}

// Classify buckets a signed settlement amount into a direction, treating
// magnitudes inside the tolerance band as balanced
func Classify(total decimal.Decimal) Direction {
	if total.Abs().LessThan(balancedTolerance) {
		return DirectionBalanced
	}
	if total.IsPositive() {
		return DirectionPartnerOwes
	}
	return DirectionUserOwes
}
