package insights

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/config"
	"github.com/digifund/digifund-backend/pkg/db/models"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

const askSourceLimit = 3

// Service exposes the embedding-free search, Q&A, and anomaly features.
type Service interface {
	Search(ctx context.Context, ownerID, query string) (*SearchResponseDTO, error)
	Ask(ctx context.Context, ownerID string, req AskRequest) (*AskResponseDTO, error)
	Anomalies(ctx context.Context, ownerID string) (*AnomaliesDTO, error)
	ProductSummary(ctx context.Context, ownerID, inventoryID string) (*ProductSummaryDTO, error)
}

type itemSource interface {
	ListAll(ctx context.Context, ownerID string) ([]models.InventoryItem, error)
	FindByInventoryID(ctx context.Context, inventoryID string) (*models.InventoryItem, error)
}

type customerSource interface {
	ListAll(ctx context.Context, ownerID string) ([]models.Customer, error)
}

type invoiceSource interface {
	ListAllForParty(ctx context.Context, publicID string) ([]models.Invoice, error)
}

type service struct {
	items     itemSource
	customers customerSource
	invoices  invoiceSource
	cfg       config.InsightsConfig
	now       func() time.Time
}

// ServiceParams groups dependencies for the insights service.
type ServiceParams struct {
	Items     itemSource
	Customers customerSource
	Invoices  invoiceSource
	Config    config.InsightsConfig
	Now       func() time.Time
}

// NewService builds an insights service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item source is required")
	}
	if params.Customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer source is required")
	}
	if params.Invoices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice source is required")
	}
	cfg := params.Config
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = 2.0
	}
	if cfg.AnomalyWindowDays <= 0 {
		cfg.AnomalyWindowDays = 30
	}
	if cfg.SearchMaxResults <= 0 {
		cfg.SearchMaxResults = 20
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		items:     params.Items,
		customers: params.Customers,
		invoices:  params.Invoices,
		cfg:       cfg,
		now:       now,
	}, nil
}

// Search scores every record of the caller against the query by keyword
// overlap and returns the ranked matches.
func (s *service) Search(ctx context.Context, ownerID, query string) (*SearchResponseDTO, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query must contain at least one searchable term")
	}

	candidates, err := s.collect(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResultDTO, 0, len(candidates))
	for _, c := range candidates {
		score := overlapScore(queryTokens, c.tokens)
		if score == 0 {
			continue
		}
		c.result.Score = score
		results = append(results, c.result)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Title < results[j].Title
	})
	if len(results) > s.cfg.SearchMaxResults {
		results = results[:s.cfg.SearchMaxResults]
	}
	return &SearchResponseDTO{Query: query, Results: results}, nil
}

// Ask retrieves the caller's top matches for the question and composes a
// templated answer citing them. No model call is involved; the answer is a
// deterministic function of the matched records.
func (s *service) Ask(ctx context.Context, ownerID string, req AskRequest) (*AskResponseDTO, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}

	search, err := s.Search(ctx, ownerID, question)
	if err != nil {
		return nil, err
	}
	sources := search.Results
	if len(sources) > askSourceLimit {
		sources = sources[:askSourceLimit]
	}

	if len(sources) == 0 {
		return &AskResponseDTO{
			Question: question,
			Answer:   "No records in your inventory, customers, or invoices match that question.",
			Sources:  []SearchResultDTO{},
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on %d matching record(s):", len(sources))
	for i, src := range sources {
		fmt.Fprintf(&b, "\n%d. [%s] %s: %s", i+1, src.Kind, src.Title, src.Snippet)
	}
	return &AskResponseDTO{Question: question, Answer: b.String(), Sources: sources}, nil
}

// Anomalies zero-fills daily invoice totals across the configured window and
// flags the days whose standard score exceeds the threshold.
func (s *service) Anomalies(ctx context.Context, ownerID string) (*AnomaliesDTO, error) {
	rows, err := s.invoices.ListAllForParty(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoices")
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(s.cfg.AnomalyWindowDays - 1))

	totals := make(map[string]float64, s.cfg.AnomalyWindowDays)
	for i := range rows {
		day := rows[i].CreatedAt.UTC().Truncate(24 * time.Hour)
		if day.Before(start) || day.After(today) {
			continue
		}
		amount, _ := rows[i].TotalAmount.Float64()
		totals[day.Format("2006-01-02")] += amount
	}

	days := make([]string, 0, s.cfg.AnomalyWindowDays)
	series := make([]float64, 0, s.cfg.AnomalyWindowDays)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		days = append(days, key)
		series = append(series, totals[key])
	}

	scores := zScores(series)
	out := &AnomaliesDTO{
		WindowDays: s.cfg.AnomalyWindowDays,
		Threshold:  s.cfg.AnomalyThreshold,
		Anomalies:  []AnomalyDTO{},
	}
	for i, z := range scores {
		if math.Abs(z) < s.cfg.AnomalyThreshold {
			continue
		}
		out.Anomalies = append(out.Anomalies, AnomalyDTO{
			Date:   days[i],
			Total:  floatToDecimal(series[i]),
			ZScore: z,
		})
	}
	return out, nil
}

// ProductSummary renders a deterministic description of one inventory item.
func (s *service) ProductSummary(ctx context.Context, ownerID, inventoryID string) (*ProductSummaryDTO, error) {
	item, err := s.items.FindByInventoryID(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	if item.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "inventory item belongs to another tenant")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (SKU %s) is priced at %s per unit.", item.Name, item.SKU, item.UnitPrice.StringFixed(2))
	switch {
	case item.Quantity == 0:
		b.WriteString(" It is currently out of stock.")
	case item.Quantity < 5:
		fmt.Fprintf(&b, " Stock is low: %d unit(s) remain, worth %s.", item.Quantity, item.Price.StringFixed(2))
	default:
		fmt.Fprintf(&b, " %d units are in stock, worth %s.", item.Quantity, item.Price.StringFixed(2))
	}
	if item.Description != nil && strings.TrimSpace(*item.Description) != "" {
		fmt.Fprintf(&b, " %s", strings.TrimSpace(*item.Description))
	}
	return &ProductSummaryDTO{InventoryID: item.InventoryID, Summary: b.String()}, nil
}

type candidate struct {
	result SearchResultDTO
	tokens map[string]struct{}
}

// collect flattens the caller's items, customers, and invoices into scorable
// documents.
func (s *service) collect(ctx context.Context, ownerID string) ([]candidate, error) {
	items, err := s.items.ListAll(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load items")
	}
	customers, err := s.customers.ListAll(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customers")
	}
	invoices, err := s.invoices.ListAllForParty(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoices")
	}

	out := make([]candidate, 0, len(items)+len(customers)+len(invoices))
	for i := range items {
		item := &items[i]
		text := item.Name + " " + item.SKU
		if item.Description != nil {
			text += " " + *item.Description
		}
		out = append(out, candidate{
			result: SearchResultDTO{
				Kind:    KindItem,
				Ref:     item.InventoryID,
				Title:   item.Name,
				Snippet: fmt.Sprintf("SKU %s, %d in stock at %s", item.SKU, item.Quantity, item.UnitPrice.StringFixed(2)),
			},
			tokens: tokenSet(text),
		})
	}
	for i := range customers {
		c := &customers[i]
		text := c.Name + " " + strings.Join(c.Tags, " ")
		if c.Email != nil {
			text += " " + *c.Email
		}
		if c.Address != nil {
			text += " " + *c.Address
		}
		snippet := "customer"
		if c.Email != nil {
			snippet = *c.Email
		}
		out = append(out, candidate{
			result: SearchResultDTO{
				Kind:    KindCustomer,
				Ref:     c.ID.String(),
				Title:   c.Name,
				Snippet: snippet,
			},
			tokens: tokenSet(text),
		})
	}
	for i := range invoices {
		inv := &invoices[i]
		text := inv.InvoiceNumber + " " + inv.BillFromName + " " + inv.BillToName + " " + inv.Status.String()
		for j := range inv.Items {
			text += " " + inv.Items[j].Name
		}
		out = append(out, candidate{
			result: SearchResultDTO{
				Kind:    KindInvoice,
				Ref:     inv.InvoiceNumber,
				Title:   inv.InvoiceNumber,
				Snippet: fmt.Sprintf("%s to %s, %s, total %s", inv.BillFromName, inv.BillToName, inv.Status, inv.TotalAmount.StringFixed(2)),
			},
			tokens: tokenSet(text),
		})
	}
	return out, nil
}
