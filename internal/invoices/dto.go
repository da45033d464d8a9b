package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
)

// LineItemInput is one billed line in a create or edit payload.
type LineItemInput struct {
	InventoryID        string          `json:"inventory_id" validate:"required"`
	Qty                int             `json:"qty" validate:"required,gt=0"`
	Rate               decimal.Decimal `json:"rate"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
}

// CreateInvoiceRequest bills a counterparty resolved by exactly one of
// public id, email, or phone.
type CreateInvoiceRequest struct {
	BillToPublicID string          `json:"bill_to_public_id,omitempty"`
	BillToEmail    string          `json:"bill_to_email,omitempty"`
	BillToPhone    string          `json:"bill_to_phone,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Items          []LineItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest replaces the invoice's line items.
type UpdateInvoiceRequest struct {
	DueDate *time.Time      `json:"due_date,omitempty"`
	Items   []LineItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateStatusRequest carries the status a party wants to set on its track.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LineItemDTO is the immutable snapshot of one billed line.
type LineItemDTO struct {
	InventoryID        string          `json:"inventory_id"`
	Name               string          `json:"name"`
	Qty                int             `json:"qty"`
	Rate               decimal.Decimal `json:"rate"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TotalPrice         decimal.Decimal `json:"total_price"`
}

// InvoiceDTO is the transport shape for one invoice with its lines.
type InvoiceDTO struct {
	InvoiceNumber  string               `json:"invoice_number"`
	InvoiceType    enums.InvoiceType    `json:"invoice_type"`
	BillFrom       string               `json:"bill_from"`
	BillTo         string               `json:"bill_to"`
	BillFromName   string               `json:"bill_from_name"`
	BillFromEmail  string               `json:"bill_from_email"`
	BillToName     string               `json:"bill_to_name"`
	BillToEmail    string               `json:"bill_to_email"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	BillFromStatus enums.BillFromStatus `json:"bill_from_status"`
	BillToStatus   enums.BillToStatus   `json:"bill_to_status"`
	Status         enums.InvoiceStatus  `json:"status"`
	DueDate        *time.Time           `json:"due_date,omitempty"`
	Items          []LineItemDTO        `json:"items"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// InvoicesPageDTO returns a cursor-paginated invoice view.
type InvoicesPageDTO struct {
	Invoices []InvoiceDTO   `json:"invoices"`
	Page     PaginationMeta `json:"pagination"`
}

// PaginationMeta carries cursor pagination metadata for list responses.
type PaginationMeta struct {
	Total int    `json:"total"`
	Next  string `json:"next,omitempty"`
}

// InvoiceCreatedEvent is published on successful creation.
type InvoiceCreatedEvent struct {
	InvoiceNumber string          `json:"invoice_number"`
	BillFrom      string          `json:"bill_from"`
	BillTo        string          `json:"bill_to"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// InvoiceStatusChangedEvent is published when either track moves.
type InvoiceStatusChangedEvent struct {
	InvoiceNumber string              `json:"invoice_number"`
	BillFrom      string              `json:"bill_from"`
	BillTo        string              `json:"bill_to"`
	ChangedBy     string              `json:"changed_by"`
	Status        enums.InvoiceStatus `json:"status"`
}

func fromModel(m *models.Invoice) *InvoiceDTO {
	if m == nil {
		return nil
	}
	items := make([]LineItemDTO, 0, len(m.Items))
	for _, line := range m.Items {
		items = append(items, LineItemDTO{
			InventoryID:        line.InventoryID,
			Name:               line.Name,
			Qty:                line.Qty,
			Rate:               line.Rate,
			DiscountPercentage: line.DiscountPercentage,
			TotalPrice:         line.TotalPrice,
		})
	}
	return &InvoiceDTO{
		InvoiceNumber:  m.InvoiceNumber,
		InvoiceType:    m.InvoiceType,
		BillFrom:       m.BillFrom,
		BillTo:         m.BillTo,
		BillFromName:   m.BillFromName,
		BillFromEmail:  m.BillFromEmail,
		BillToName:     m.BillToName,
		BillToEmail:    m.BillToEmail,
		TotalAmount:    m.TotalAmount,
		BillFromStatus: m.BillFromStatus,
		BillToStatus:   m.BillToStatus,
		Status:         m.Status,
		DueDate:        m.DueDate,
		Items:          items,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
