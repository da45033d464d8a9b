package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a tenant-scoped stock record. Price is a cached projection
// of unit_price x quantity, recomputed on every write and never accepted as input.
type InventoryItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     string          `gorm:"column:owner_id;not null;index;uniqueIndex:idx_inventory_owner_sku"`
	InventoryID string          `gorm:"column:inventory_id;uniqueIndex;not null"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex:idx_inventory_owner_sku"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Quantity    int             `gorm:"column:quantity;not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
