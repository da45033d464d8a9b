package invoices

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
	"github.com/digifund/digifund-backend/pkg/pagination"
)

// Repository encapsulates invoice persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an invoices repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists the invoice header together with its line items.
func (r *Repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// FindByNumber loads an invoice with its lines.
func (r *Repository) FindByNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// NextSequence returns the next invoice sequence number. Callers run this
// inside the creation transaction; the unique index on invoice_number
// backstops concurrent creates, which retry with a fresh sequence.
func (r *Repository) NextSequence(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("COALESCE(MAX(CAST(SUBSTR(invoice_number, 5) AS INTEGER)), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

// UpdateStatuses persists both tracks and the folded overall status.
func (r *Repository) UpdateStatuses(ctx context.Context, invoiceNumber string, billFrom enums.BillFromStatus, billTo enums.BillToStatus, overall enums.InvoiceStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("invoice_number = ?", invoiceNumber).
		Updates(map[string]any{
			"bill_from_status": billFrom,
			"bill_to_status":   billTo,
			"status":           overall,
		}).Error
}

// SaveHeader persists mutable header columns (total, due date).
func (r *Repository) SaveHeader(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("invoice_number = ?", invoice.InvoiceNumber).
		Updates(map[string]any{
			"total_amount": invoice.TotalAmount,
			"due_date":     invoice.DueDate,
		}).Error
}

// ReplaceLines deletes an invoice's line rows and inserts the new set.
func (r *Repository) ReplaceLines(ctx context.Context, invoice *models.Invoice, lines []models.InvoiceLineItem) error {
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Delete(&models.InvoiceLineItem{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// Delete removes the invoice; line rows cascade.
func (r *Repository) Delete(ctx context.Context, invoiceNumber string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		Delete(&models.Invoice{})
	return res.RowsAffected, res.Error
}

// DeleteLines removes all line rows for an invoice id. Used on drivers
// without foreign-key cascade enabled.
func (r *Repository) DeleteLines(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Delete(&models.InvoiceLineItem{}).Error
}

// ListForParty returns a cursor-paginated slice of invoices where the tenant
// is sender or receiver.
func (r *Repository) ListForParty(ctx context.Context, publicID string, cursor string, limit int) ([]models.Invoice, string, error) {
	cursorValue := strings.TrimSpace(cursor)
	decoded, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Preload("Items").
		Where("bill_from = ? OR bill_to = ?", publicID, publicID)

	if decoded != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decoded.CreatedAt, decoded.CreatedAt, decoded.ID)
	}

	var rows []models.Invoice
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

// CountForParty reports how many invoices name the tenant as a party.
func (r *Repository) CountForParty(ctx context.Context, publicID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("bill_from = ? OR bill_to = ?", publicID, publicID).
		Count(&count).Error
	return count, err
}

// ListAllForParty loads every invoice naming the tenant, newest first.
func (r *Repository) ListAllForParty(ctx context.Context, publicID string) ([]models.Invoice, error) {
	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("bill_from = ? OR bill_to = ?", publicID, publicID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
