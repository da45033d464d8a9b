package relationships

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
)

// Repository encapsulates handshake and trading-edge persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a relationships repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateRequest inserts a new pending handshake.
func (r *Repository) CreateRequest(ctx context.Context, req *models.RelationshipRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindRequestByID loads a handshake by primary key without scoping; callers
// decide who may see it.
func (r *Repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.RelationshipRequest, error) {
	var req models.RelationshipRequest
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindPendingBetween loads a pending handshake of the given type between the
// pair, in either direction.
func (r *Repository) FindPendingBetween(ctx context.Context, a, b string, relType enums.RelationshipType) (*models.RelationshipRequest, error) {
	var req models.RelationshipRequest
	if err := r.db.WithContext(ctx).
		Where("relationship_type = ? AND status = ?", relType, enums.RequestStatusPending).
		Where("(requester_id = ? AND requested_id = ?) OR (requester_id = ? AND requested_id = ?)", a, b, b, a).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FlipRequestStatus moves a request out of pending in a single conditional
// statement. Zero rows affected means another caller got there first.
func (r *Repository) FlipRequestStatus(ctx context.Context, id uuid.UUID, to enums.RequestStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RelationshipRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPending).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// CreateSupplierEdge inserts a permanent supplier edge.
func (r *Repository) CreateSupplierEdge(ctx context.Context, edge *models.SupplierRelationship) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

// CreateConsumerEdge inserts a permanent consumer edge.
func (r *Repository) CreateConsumerEdge(ctx context.Context, edge *models.ConsumerRelationship) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

// ListRequestsForOwner returns every handshake the owner appears in, newest
// first.
func (r *Repository) ListRequestsForOwner(ctx context.Context, ownerID string) ([]models.RelationshipRequest, error) {
	var rows []models.RelationshipRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? OR requested_id = ?", ownerID, ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSuppliers returns the owner's supplier edges.
func (r *Repository) ListSuppliers(ctx context.Context, ownerID string) ([]models.SupplierRelationship, error) {
	var rows []models.SupplierRelationship
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListConsumers returns the owner's consumer edges.
func (r *Repository) ListConsumers(ctx context.Context, ownerID string) ([]models.ConsumerRelationship, error) {
	var rows []models.ConsumerRelationship
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
