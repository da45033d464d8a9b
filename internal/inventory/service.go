package inventory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db/models"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

// Service exposes the stock-ledger business rules.
type Service interface {
	Upsert(ctx context.Context, ownerID string, req UpsertItemRequest) (*ItemDTO, error)
	Update(ctx context.Context, ownerID, inventoryID string, req UpdateItemRequest) (*ItemDTO, error)
	DecreaseStock(ctx context.Context, ownerID, inventoryID string, qty int) (*ItemDTO, error)
	Remove(ctx context.Context, ownerID, inventoryID string) error
	Get(ctx context.Context, ownerID, inventoryID string) (*ItemDTO, error)
	List(ctx context.Context, ownerID string, cursor string, limit int) (ItemsPageDTO, error)
}

type service struct {
	repo *Repository
}

// ServiceParams groups dependencies for the inventory service.
type ServiceParams struct {
	Repo *Repository
}

// NewService builds an inventory service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Upsert creates or updates the owner's row for a SKU. An existing SKU keeps
// its inventory id; quantity, unit price, name and description are replaced
// and price is recomputed.
func (s *service) Upsert(ctx context.Context, ownerID string, req UpsertItemRequest) (*ItemDTO, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if req.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
	}

	existing, err := s.repo.FindBySKU(ctx, ownerID, sku)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup sku")
	}

	price := req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	if existing != nil {
		existing.Name = strings.TrimSpace(req.Name)
		existing.Description = req.Description
		existing.Quantity = req.Quantity
		existing.UnitPrice = req.UnitPrice
		existing.Price = price
		if err := s.repo.Save(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
		}
		return fromModel(existing), nil
	}

	inventoryID, err := NewInventoryID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint inventory id")
	}
	item := &models.InventoryItem{
		OwnerID:     ownerID,
		InventoryID: inventoryID,
		SKU:         sku,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Price:       price,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return fromModel(item), nil
}

// Update applies the non-nil fields to the owner's row and re-derives price.
// The SKU and inventory id are immutable.
func (s *service) Update(ctx context.Context, ownerID, inventoryID string, req UpdateItemRequest) (*ItemDTO, error) {
	item, err := s.repo.FindByInventoryID(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	if item.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "inventory item belongs to another tenant")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price cannot be negative")
		}
		item.UnitPrice = *req.UnitPrice
	}
	item.Price = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	return fromModel(item), nil
}

// DecreaseStock deducts qty using a conditional single-statement update; an
// existing row left untouched means the remaining stock was insufficient.
func (s *service) DecreaseStock(ctx context.Context, ownerID, inventoryID string, qty int) (*ItemDTO, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	affected, err := s.repo.DecrementStock(ctx, ownerID, inventoryID, qty)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
	}
	if affected == 0 {
		item, lookupErr := s.repo.FindByInventoryID(ctx, inventoryID)
		if lookupErr != nil {
			if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, lookupErr, "load item")
		}
		if item.OwnerID != ownerID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for %s: requested %d, available %d", inventoryID, qty, item.Quantity))
	}

	item, err := s.repo.FindByInventoryID(ctx, inventoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload item")
	}
	return fromModel(item), nil
}

// Remove deletes the owner's row.
func (s *service) Remove(ctx context.Context, ownerID, inventoryID string) error {
	affected, err := s.repo.Delete(ctx, ownerID, inventoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	if affected == 0 {
		return s.classifyMiss(ctx, ownerID, inventoryID)
	}
	return nil
}

// Get returns one row, distinguishing a missing row from one owned by a
// different tenant.
func (s *service) Get(ctx context.Context, ownerID, inventoryID string) (*ItemDTO, error) {
	item, err := s.repo.FindByInventoryID(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	if item.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "inventory item belongs to another tenant")
	}
	return fromModel(item), nil
}

// List returns the owner's ledger page.
func (s *service) List(ctx context.Context, ownerID string, cursor string, limit int) (ItemsPageDTO, error) {
	rows, next, err := s.repo.List(ctx, ownerID, cursor, limit)
	if err != nil {
		return ItemsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	total, err := s.repo.Count(ctx, ownerID)
	if err != nil {
		return ItemsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count items")
	}

	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *fromModel(&rows[i]))
	}
	return ItemsPageDTO{
		Items: items,
		Page:  PaginationMeta{Total: int(total), Next: next},
	}, nil
}

func (s *service) classifyMiss(ctx context.Context, ownerID, inventoryID string) error {
	item, err := s.repo.FindByInventoryID(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	if item.OwnerID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "inventory item belongs to another tenant")
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
}

// NewInventoryID mints a ledger business id, e.g. ITM-1a2b3c4d.
func NewInventoryID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate inventory id: %w", err)
	}
	return fmt.Sprintf("ITM-%s", hex.EncodeToString(buf)), nil
}
