package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/pagination"
)

// Repository encapsulates contact-record persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new contact record.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Save persists all mutable columns of an existing record.
func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// FindByID loads a record by primary key without owner scoping; callers
// decide between not-found and forbidden.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Delete removes the owner's record and reports whether anything was deleted.
func (r *Repository) Delete(ctx context.Context, ownerID string, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&models.Customer{})
	return res.RowsAffected, res.Error
}

// List returns a cursor-paginated slice of the owner's contacts.
func (r *Repository) List(ctx context.Context, ownerID string, cursor string, limit int) ([]models.Customer, string, error) {
	decoded, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("owner_id = ?", ownerID)

	if decoded != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decoded.CreatedAt, decoded.CreatedAt, decoded.ID)
	}

	var rows []models.Customer
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

// Count reports how many contacts the owner has.
func (r *Repository) Count(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// ListAll loads the owner's full contact book, newest first. Used by insights
// and exports where ranking needs the whole corpus.
func (r *Repository) ListAll(ctx context.Context, ownerID string) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
