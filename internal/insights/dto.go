package insights

import "github.com/shopspring/decimal"

// Result kinds returned by Search and cited by Ask.
const (
	KindItem     = "item"
	KindCustomer = "customer"
	KindInvoice  = "invoice"
)

// SearchResultDTO is one ranked match.
type SearchResultDTO struct {
	Kind    string  `json:"kind"`
	Ref     string  `json:"ref"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// SearchResponseDTO is the ranked result set for a query.
type SearchResponseDTO struct {
	Query   string            `json:"query"`
	Results []SearchResultDTO `json:"results"`
}

// AskRequest carries a free-form question about the caller's records.
type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// AskResponseDTO is a templated answer composed from the top matches.
type AskResponseDTO struct {
	Question string            `json:"question"`
	Answer   string            `json:"answer"`
	Sources  []SearchResultDTO `json:"sources"`
}

// AnomalyDTO is one flagged day of invoice activity.
type AnomalyDTO struct {
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	ZScore float64         `json:"z_score"`
}

// AnomaliesDTO is the flagged-day report for the configured window.
type AnomaliesDTO struct {
	WindowDays int          `json:"window_days"`
	Threshold  float64      `json:"threshold"`
	Anomalies  []AnomalyDTO `json:"anomalies"`
}

// ProductSummaryDTO is a deterministic natural-language summary of one
// inventory item.
type ProductSummaryDTO struct {
	InventoryID string `json:"inventory_id"`
	Summary     string `json:"summary"`
}
