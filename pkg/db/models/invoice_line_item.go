package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLineItem is an immutable snapshot of one billed line. It references
// inventory by business id, so later price changes never rewrite history.
type InvoiceLineItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceID          uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index"`
	InventoryID        string          `gorm:"column:inventory_id;not null"`
	Name               string          `gorm:"column:name;not null"`
	Qty                int             `gorm:"column:qty;not null"`
	Rate               decimal.Decimal `gorm:"column:rate;type:numeric(14,2);not null"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null;default:0"`
	TotalPrice         decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}
