package inventory

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/pagination"
)

// Repository encapsulates stock-ledger persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new ledger row.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save persists all mutable columns of an existing row.
func (r *Repository) Save(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindBySKU loads the owner's row for a SKU.
func (r *Repository) FindBySKU(ctx context.Context, ownerID, sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND sku = ?", ownerID, sku).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByInventoryID loads a row by business id without owner scoping; callers
// decide between not-found and forbidden.
func (r *Repository) FindByInventoryID(ctx context.Context, inventoryID string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindManyByInventoryIDs loads the owner's rows for the given business ids,
// keyed by inventory id.
func (r *Repository) FindManyByInventoryIDs(ctx context.Context, ownerID string, inventoryIDs []string) (map[string]*models.InventoryItem, error) {
	out := make(map[string]*models.InventoryItem, len(inventoryIDs))
	if len(inventoryIDs) == 0 {
		return out, nil
	}
	var rows []models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND inventory_id IN ?", ownerID, inventoryIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].InventoryID] = &rows[i]
	}
	return out, nil
}

// DecrementStock subtracts qty in a single conditional statement and keeps the
// derived price in step. Zero rows affected means the row is missing or the
// remaining quantity is insufficient.
func (r *Repository) DecrementStock(ctx context.Context, ownerID, inventoryID string, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("owner_id = ? AND inventory_id = ? AND quantity >= ?", ownerID, inventoryID, qty).
		UpdateColumns(map[string]any{
			"quantity": gorm.Expr("quantity - ?", qty),
			"price":    gorm.Expr("unit_price * (quantity - ?)", qty),
		})
	return res.RowsAffected, res.Error
}

// IncrementStock returns qty units to the ledger, recomputing price.
func (r *Repository) IncrementStock(ctx context.Context, ownerID, inventoryID string, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("owner_id = ? AND inventory_id = ?", ownerID, inventoryID).
		UpdateColumns(map[string]any{
			"quantity": gorm.Expr("quantity + ?", qty),
			"price":    gorm.Expr("unit_price * (quantity + ?)", qty),
		})
	return res.RowsAffected, res.Error
}

// Delete removes the owner's row and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, ownerID, inventoryID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND inventory_id = ?", ownerID, inventoryID).
		Delete(&models.InventoryItem{})
	return res.RowsAffected, res.Error
}

// List returns a cursor-paginated slice of the owner's ledger.
func (r *Repository) List(ctx context.Context, ownerID string, cursor string, limit int) ([]models.InventoryItem, string, error) {
	cursorValue := strings.TrimSpace(cursor)
	decoded, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("owner_id = ?", ownerID)

	if decoded != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decoded.CreatedAt, decoded.CreatedAt, decoded.ID)
	}

	var rows []models.InventoryItem
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	page, hasMore := pagination.Trim(rows, limit)
	next := ""
	if hasMore {
		last := page[len(page)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, next, nil
}

// Count reports how many rows the owner has.
func (r *Repository) Count(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// ListAll loads the owner's full ledger, newest first. Used by insights and
// exports where ranking needs the whole corpus.
func (r *Repository) ListAll(ctx context.Context, ownerID string) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
