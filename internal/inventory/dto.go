package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/digifund/digifund-backend/pkg/db/models"
)

// UpsertItemRequest is the write payload for the stock ledger. Price is never
// accepted as input; it is derived from unit_price and quantity.
type UpsertItemRequest struct {
	SKU         string          `json:"sku" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// UpdateItemRequest carries partial updates to an existing row; nil fields
// are left alone. Price is re-derived whenever quantity or unit price moves.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// DecreaseStockRequest carries the quantity to deduct from an item.
type DecreaseStockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ItemDTO is the transport shape for one ledger row.
type ItemDTO struct {
	InventoryID string          `json:"inventory_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemsPageDTO returns a cursor-paginated ledger view.
type ItemsPageDTO struct {
	Items []ItemDTO      `json:"items"`
	Page  PaginationMeta `json:"pagination"`
}

// PaginationMeta carries cursor pagination metadata for list responses.
type PaginationMeta struct {
	Total int    `json:"total"`
	Next  string `json:"next,omitempty"`
}

func fromModel(m *models.InventoryItem) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		InventoryID: m.InventoryID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Price:       m.Price,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
