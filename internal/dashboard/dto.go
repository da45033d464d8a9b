package dashboard

import "github.com/shopspring/decimal"

// StatusBucket is the count and amount sum of invoices sharing an overall
// status.
type StatusBucket struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// SummaryDTO is the per-tenant rollup recomputed on every request.
type SummaryDTO struct {
	TotalInvoices int                     `json:"total_invoices"`
	ByStatus      map[string]StatusBucket `json:"by_status"`
	Income        decimal.Decimal         `json:"income"`
	Expense       decimal.Decimal         `json:"expense"`
	Net           decimal.Decimal         `json:"net"`
	Outstanding   decimal.Decimal         `json:"outstanding"`
}

// MonthBucket is one month of invoice activity.
type MonthBucket struct {
	Month   string          `json:"month"`
	Count   int             `json:"count"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// MonthlyDTO is the windowed month-by-month series, oldest first.
type MonthlyDTO struct {
	Months []MonthBucket `json:"months"`
}
