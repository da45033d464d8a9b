package dashboard

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

// DefaultWindowMonths bounds the monthly series when the caller does not ask
// for a window.
const DefaultWindowMonths = 12

// MaxWindowMonths caps the monthly series window.
const MaxWindowMonths = 60

// Service exposes the read-only tenant rollups.
type Service interface {
	Summary(ctx context.Context, partyID string) (*SummaryDTO, error)
	Monthly(ctx context.Context, partyID string, months int) (*MonthlyDTO, error)
}

// invoiceSource is the slice of the invoices repo the rollups need.
type invoiceSource interface {
	ListAllForParty(ctx context.Context, publicID string) ([]models.Invoice, error)
}

type service struct {
	invoices invoiceSource
	now      func() time.Time
}

// ServiceParams groups dependencies for the dashboard service.
type ServiceParams struct {
	Invoices invoiceSource
	Now      func() time.Time
}

// NewService builds a dashboard service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Invoices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice source is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{invoices: params.Invoices, now: now}, nil
}

// Summary recomputes the caller's rollup from their full invoice set. Money
// the caller billed counts as income, money billed to them as expense;
// outstanding is the unresolved income.
func (s *service) Summary(ctx context.Context, partyID string) (*SummaryDTO, error) {
	if strings.TrimSpace(partyID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}
	rows, err := s.invoices.ListAllForParty(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoices")
	}

	out := &SummaryDTO{
		TotalInvoices: len(rows),
		ByStatus:      make(map[string]StatusBucket, 4),
	}
	for i := range rows {
		inv := &rows[i]

		bucket := out.ByStatus[inv.Status.String()]
		bucket.Count++
		bucket.Amount = bucket.Amount.Add(inv.TotalAmount)
		out.ByStatus[inv.Status.String()] = bucket

		if inv.BillFrom == partyID {
			out.Income = out.Income.Add(inv.TotalAmount)
			if inv.Status != enums.InvoiceStatusPaid && inv.Status != enums.InvoiceStatusDeclined {
				out.Outstanding = out.Outstanding.Add(inv.TotalAmount)
			}
		} else {
			out.Expense = out.Expense.Add(inv.TotalAmount)
		}
	}
	out.Net = out.Income.Sub(out.Expense)
	return out, nil
}

// Monthly buckets the caller's invoices by calendar month inside the window,
// oldest month first. Months without activity are omitted.
func (s *service) Monthly(ctx context.Context, partyID string, months int) (*MonthlyDTO, error) {
	if strings.TrimSpace(partyID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party id is required")
	}
	if months <= 0 {
		months = DefaultWindowMonths
	}
	if months > MaxWindowMonths {
		months = MaxWindowMonths
	}

	rows, err := s.invoices.ListAllForParty(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoices")
	}

	cutoff := s.now().AddDate(0, -months, 0)
	buckets := make(map[string]*MonthBucket)
	for i := range rows {
		inv := &rows[i]
		if inv.CreatedAt.Before(cutoff) {
			continue
		}
		key := inv.CreatedAt.Format("2006-01")
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthBucket{Month: key}
			buckets[key] = bucket
		}
		bucket.Count++
		if inv.BillFrom == partyID {
			bucket.Income = bucket.Income.Add(inv.TotalAmount)
		} else {
			bucket.Expense = bucket.Expense.Add(inv.TotalAmount)
		}
	}

	out := &MonthlyDTO{Months: make([]MonthBucket, 0, len(buckets))}
	for _, bucket := range buckets {
		out.Months = append(out.Months, *bucket)
	}
	sort.Slice(out.Months, func(i, j int) bool {
		return out.Months[i].Month < out.Months[j].Month
	})
	return out, nil
}
