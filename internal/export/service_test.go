package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/digifund/digifund-backend/pkg/db/models"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

const testOwner = "BIZ-11111111"

type fakeItems struct{ rows []models.InventoryItem }

func (f *fakeItems) ListAll(context.Context, string) ([]models.InventoryItem, error) {
	return f.rows, nil
}

type fakeInvoices struct{ rows []models.Invoice }

func (f *fakeInvoices) ListAllForParty(context.Context, string) ([]models.Invoice, error) {
	return f.rows, nil
}

type fakeCustomers struct{ rows []models.Customer }

func (f *fakeCustomers) ListAll(context.Context, string) ([]models.Customer, error) {
	return f.rows, nil
}

func newTestService(t *testing.T, items *fakeItems, invoices *fakeInvoices, customers *fakeCustomers) Service {
	t.Helper()
	if items == nil {
		items = &fakeItems{}
	}
	if invoices == nil {
		invoices = &fakeInvoices{}
	}
	if customers == nil {
		customers = &fakeCustomers{}
	}
	svc, err := NewService(ServiceParams{Items: items, Invoices: invoices, Customers: customers})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return records
}

func TestExportInventory(t *testing.T) {
	created := time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)
	description := "Cold-rolled, 3mm"
	svc := newTestService(t, &fakeItems{rows: []models.InventoryItem{{
		InventoryID: "ITM-aaaa0001",
		SKU:         "STL-1",
		Name:        "Steel Widget",
		Description: &description,
		Quantity:    12,
		UnitPrice:   decimal.RequireFromString("2.5"),
		Price:       decimal.RequireFromString("30"),
		CreatedAt:   created,
	}}}, nil, nil)

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), testOwner, EntityInventory, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	records := parseCSV(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	if records[0][0] != "inventory_id" || records[0][5] != "unit_price" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	row := records[1]
	want := []string{"ITM-aaaa0001", "STL-1", "Steel Widget", "Cold-rolled, 3mm", "12", "2.50", "30.00", "2026-03-01T09:30:00Z"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d: expected %q, got %q", i, want[i], row[i])
		}
	}
}

func TestExportInvoices(t *testing.T) {
	created := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, nil, &fakeInvoices{rows: []models.Invoice{{
		InvoiceNumber: "INV-000007",
		BillFrom:      testOwner,
		BillTo:        "BIZ-22222222",
		Status:        "paid",
		TotalAmount:   decimal.RequireFromString("13.5"),
		DueDate:       &due,
		CreatedAt:     created,
	}}}, nil)

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), testOwner, EntityInvoices, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	records := parseCSV(t, &buf)
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(records))
	}
	row := records[1]
	want := []string{"INV-000007", testOwner, "BIZ-22222222", "paid", "13.50", "2026-04-01", "2026-03-02T08:00:00Z"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("column %d: expected %q, got %q", i, want[i], row[i])
		}
	}
}

func TestExportCustomers(t *testing.T) {
	email := "orders@acme.test"
	svc := newTestService(t, nil, nil, &fakeCustomers{rows: []models.Customer{{
		ID:    uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Name:  "Acme, Inc.",
		Email: &email,
		Tags:  pq.StringArray{"wholesale", "net-30"},
	}}})

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), testOwner, EntityCustomers, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	records := parseCSV(t, &buf)
	row := records[1]
	if row[1] != "Acme, Inc." {
		t.Fatalf("expected quoted comma to survive, got %q", row[1])
	}
	if row[5] != "wholesale;net-30" {
		t.Fatalf("expected joined tags, got %q", row[5])
	}
}

func TestExportUnknownEntity(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	var buf bytes.Buffer
	err := svc.Export(context.Background(), testOwner, "ledgers", &buf)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}
}
