package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single expense logged by one user for one month
type Expense struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ExpenseDate time.Time       `json:"expense_date"`
	Month       string          `json:"month"` // YYYY-MM
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Categories is the fixed category catalog offered by the entry form
var Categories = []string{
	"Amazon",
	"Rent",
	"Blinkit",
	"Zomato",
	"Bigbasket",
	"Meter recharge",
	"Netflix",
	"Broadband",
	"Car Wash",
	"Gas Cylinder",
	"Swiggy",
	"Maid",
	"Cook",
	"Others",
}

// MonthlyTotal is one data point of the spending chart
type MonthlyTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}
