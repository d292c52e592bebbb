package balance

import (
	"github.com/shopspring/decimal"

	"github.com/walletwatch/walletwatch/internal/pending"
)

// SummaryResponse is the full settlement picture surfaced to the dashboard
type SummaryResponse struct {
	Month       string `json:"month"`
	UserID      int64  `json:"user_id"`
	PartnerID   int64  `json:"partner_id"`
	PartnerName string `json:"partner_name"`

	UserTotal     decimal.Decimal `json:"user_total"`
	PartnerTotal  decimal.Decimal `json:"partner_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	EqualShare    decimal.Decimal `json:"equal_share"`
	SharedBalance decimal.Decimal `json:"shared_balance"`

	PendingCredit decimal.Decimal `json:"pending_credit"`
	PendingDebt   decimal.Decimal `json:"pending_debt"`
	NetPending    decimal.Decimal `json:"net_pending"`

	TotalSettlement decimal.Decimal `json:"total_settlement"`
	Direction       Direction       `json:"direction"`
	Message         string          `json:"message"`

	ActivePending []*pending.PendingBalanceResponse `json:"active_pending"`
}
