package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/digifund/digifund-backend/pkg/enums"
)

// Invoice is a bill from one tenant to another. The two sub-status tracks are
// owned by sender and receiver respectively and are folded into Status by
// precedence: paid > approved > declined > pending.
type Invoice struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceNumber  string               `gorm:"column:invoice_number;uniqueIndex;not null"`
	InvoiceType    enums.InvoiceType    `gorm:"column:invoice_type;type:text;not null;default:'income'"`
	BillFrom       string               `gorm:"column:bill_from;not null;index"`
	BillTo         string               `gorm:"column:bill_to;not null;index"`
	BillFromName   string               `gorm:"column:bill_from_name;not null"`
	BillFromEmail  string               `gorm:"column:bill_from_email;not null"`
	BillToName     string               `gorm:"column:bill_to_name;not null"`
	BillToEmail    string               `gorm:"column:bill_to_email;not null"`
	TotalAmount    decimal.Decimal      `gorm:"column:total_amount;type:numeric(14,2);not null"`
	BillFromStatus enums.BillFromStatus `gorm:"column:bill_from_status;type:text;not null;default:'waiting'"`
	BillToStatus   enums.BillToStatus   `gorm:"column:bill_to_status;type:text;not null;default:'pending'"`
	Status         enums.InvoiceStatus  `gorm:"column:status;type:text;not null;default:'pending'"`
	DueDate        *time.Time           `gorm:"column:due_date"`
	Items          []InvoiceLineItem    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
