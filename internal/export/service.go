package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/digifund/digifund-backend/pkg/db/models"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

// Exportable entities.
const (
	EntityInventory = "inventory"
	EntityInvoices  = "invoices"
	EntityCustomers = "customers"
)

// Service streams a tenant's records as CSV.
type Service interface {
	Export(ctx context.Context, ownerID, entity string, w io.Writer) error
}

type itemSource interface {
	ListAll(ctx context.Context, ownerID string) ([]models.InventoryItem, error)
}

type invoiceSource interface {
	ListAllForParty(ctx context.Context, publicID string) ([]models.Invoice, error)
}

type customerSource interface {
	ListAll(ctx context.Context, ownerID string) ([]models.Customer, error)
}

type service struct {
	items     itemSource
	invoices  invoiceSource
	customers customerSource
}

// ServiceParams groups dependencies for the export service.
type ServiceParams struct {
	Items     itemSource
	Invoices  invoiceSource
	Customers customerSource
}

// NewService builds an export service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item source is required")
	}
	if params.Invoices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice source is required")
	}
	if params.Customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer source is required")
	}
	return &service{items: params.Items, invoices: params.Invoices, customers: params.Customers}, nil
}

// Export writes the named entity's rows, header first. Unknown entities are a
// validation error so the handler can map them to a 400.
func (s *service) Export(ctx context.Context, ownerID, entity string, w io.Writer) error {
	writer := csv.NewWriter(w)
	var err error
	switch entity {
	case EntityInventory:
		err = s.writeInventory(ctx, ownerID, writer)
	case EntityInvoices:
		err = s.writeInvoices(ctx, ownerID, writer)
	case EntityCustomers:
		err = s.writeCustomers(ctx, ownerID, writer)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown export entity: "+entity)
	}
	if err != nil {
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

func (s *service) writeInventory(ctx context.Context, ownerID string, w *csv.Writer) error {
	rows, err := s.items.ListAll(ctx, ownerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load items")
	}
	if err := w.Write([]string{"inventory_id", "sku", "name", "description", "quantity", "unit_price", "price", "created_at"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write header")
	}
	for i := range rows {
		item := &rows[i]
		description := ""
		if item.Description != nil {
			description = *item.Description
		}
		record := []string{
			item.InventoryID,
			item.SKU,
			item.Name,
			description,
			strconv.Itoa(item.Quantity),
			item.UnitPrice.StringFixed(2),
			item.Price.StringFixed(2),
			item.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := w.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write row")
		}
	}
	return nil
}

func (s *service) writeInvoices(ctx context.Context, ownerID string, w *csv.Writer) error {
	rows, err := s.invoices.ListAllForParty(ctx, ownerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoices")
	}
	if err := w.Write([]string{"invoice_number", "bill_from", "bill_to", "status", "total_amount", "due_date", "created_at"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write header")
	}
	for i := range rows {
		inv := &rows[i]
		dueDate := ""
		if inv.DueDate != nil {
			dueDate = inv.DueDate.UTC().Format("2006-01-02")
		}
		record := []string{
			inv.InvoiceNumber,
			inv.BillFrom,
			inv.BillTo,
			inv.Status.String(),
			inv.TotalAmount.StringFixed(2),
			dueDate,
			inv.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := w.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write row")
		}
	}
	return nil
}

func (s *service) writeCustomers(ctx context.Context, ownerID string, w *csv.Writer) error {
	rows, err := s.customers.ListAll(ctx, ownerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customers")
	}
	if err := w.Write([]string{"id", "name", "email", "phone", "address", "tags", "created_at"}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write header")
	}
	for i := range rows {
		c := &rows[i]
		record := []string{
			c.ID.String(),
			c.Name,
			deref(c.Email),
			deref(c.Phone),
			deref(c.Address),
			strings.Join(c.Tags, ";"),
			c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := w.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write row")
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
