package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
)

const caller = "BIZ-11111111"

type fakeInvoices struct {
	rows []models.Invoice
	err  error
}

func (f *fakeInvoices) ListAllForParty(context.Context, string) ([]models.Invoice, error) {
	return f.rows, f.err
}

func invoice(from, to string, amount string, status enums.InvoiceStatus, createdAt time.Time) models.Invoice {
	return models.Invoice{
		BillFrom:    from,
		BillTo:      to,
		TotalAmount: decimal.RequireFromString(amount),
		Status:      status,
		CreatedAt:   createdAt,
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, rows []models.Invoice) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Invoices: &fakeInvoices{rows: rows},
		Now:      fixedNow,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSummaryRollsUpByStatusAndDirection(t *testing.T) {
	now := fixedNow()
	svc := newTestService(t, []models.Invoice{
		invoice(caller, "BIZ-22222222", "100.00", enums.InvoiceStatusPaid, now),
		invoice(caller, "BIZ-22222222", "40.00", enums.InvoiceStatusPending, now),
		invoice(caller, "BIZ-33333333", "10.00", enums.InvoiceStatusDeclined, now),
		invoice("BIZ-22222222", caller, "25.00", enums.InvoiceStatusApproved, now),
	})

	summary, err := svc.Summary(context.Background(), caller)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if summary.TotalInvoices != 4 {
		t.Fatalf("expected 4 invoices, got %d", summary.TotalInvoices)
	}
	if !summary.Income.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected income 150.00, got %s", summary.Income)
	}
	if !summary.Expense.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected expense 25.00, got %s", summary.Expense)
	}
	if !summary.Net.Equal(decimal.RequireFromString("125.00")) {
		t.Fatalf("expected net 125.00, got %s", summary.Net)
	}
	if !summary.Outstanding.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected outstanding 40.00, got %s", summary.Outstanding)
	}

	paid := summary.ByStatus["paid"]
	if paid.Count != 1 || !paid.Amount.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected paid bucket: %+v", paid)
	}
	pending := summary.ByStatus["pending"]
	if pending.Count != 1 || !pending.Amount.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("unexpected pending bucket: %+v", pending)
	}
}

func TestSummaryEmpty(t *testing.T) {
	svc := newTestService(t, nil)

	summary, err := svc.Summary(context.Background(), caller)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalInvoices != 0 || len(summary.ByStatus) != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
	if !summary.Net.IsZero() {
		t.Fatalf("expected zero net, got %s", summary.Net)
	}
}

func TestMonthlyBucketsInsideWindow(t *testing.T) {
	now := fixedNow()
	svc := newTestService(t, []models.Invoice{
		invoice(caller, "BIZ-22222222", "100.00", enums.InvoiceStatusPaid, now.AddDate(0, -1, 0)),
		invoice(caller, "BIZ-22222222", "50.00", enums.InvoiceStatusPending, now.AddDate(0, -1, 0)),
		invoice("BIZ-22222222", caller, "30.00", enums.InvoiceStatusPaid, now),
		invoice(caller, "BIZ-22222222", "999.00", enums.InvoiceStatusPaid, now.AddDate(0, -7, 0)),
	})

	monthly, err := svc.Monthly(context.Background(), caller, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(monthly.Months) != 2 {
		t.Fatalf("expected 2 months inside the window, got %d: %+v", len(monthly.Months), monthly.Months)
	}

	may := monthly.Months[0]
	if may.Month != "2026-05" || may.Count != 2 || !may.Income.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("unexpected first bucket: %+v", may)
	}
	june := monthly.Months[1]
	if june.Month != "2026-06" || !june.Expense.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("unexpected second bucket: %+v", june)
	}
}

func TestMonthlyDefaultsAndCapsWindow(t *testing.T) {
	now := fixedNow()
	svc := newTestService(t, []models.Invoice{
		invoice(caller, "BIZ-22222222", "10.00", enums.InvoiceStatusPaid, now.AddDate(0, -11, 0)),
		invoice(caller, "BIZ-22222222", "20.00", enums.InvoiceStatusPaid, now.AddDate(0, -13, 0)),
	})

	monthly, err := svc.Monthly(context.Background(), caller, 0)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(monthly.Months) != 1 {
		t.Fatalf("expected the 13-month-old invoice outside the default window, got %+v", monthly.Months)
	}

	wide, err := svc.Monthly(context.Background(), caller, 1000)
	if err != nil {
		t.Fatalf("Monthly wide: %v", err)
	}
	if len(wide.Months) != 2 {
		t.Fatalf("expected both invoices inside the capped window, got %+v", wide.Months)
	}
}
