package relationships

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db"
	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

// Handshake response actions.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Service exposes the supplier/consumer handshake rules.
type Service interface {
	SendRequest(ctx context.Context, requesterID string, req SendRequestRequest) (*RequestDTO, error)
	Respond(ctx context.Context, requestID uuid.UUID, action, callerID string) (*RequestDTO, error)
	ListRequests(ctx context.Context, ownerID string) ([]RequestDTO, error)
	ListSuppliers(ctx context.Context, ownerID string) ([]PartnerDTO, error)
	ListConsumers(ctx context.Context, ownerID string) ([]PartnerDTO, error)
}

// partnerResolver is the slice of the users repo the service needs.
type partnerResolver interface {
	FindByPublicID(ctx context.Context, publicID string) (*models.User, error)
	FindManyByPublicIDs(ctx context.Context, publicIDs []string) (map[string]*models.User, error)
}

type service struct {
	db    *db.Client
	repo  *Repository
	users partnerResolver
}

// ServiceParams groups dependencies for the relationships service.
type ServiceParams struct {
	DB    *db.Client
	Repo  *Repository
	Users partnerResolver
}

// NewService builds a relationships service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "relationships repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users resolver is required")
	}
	return &service{db: params.DB, repo: params.Repo, users: params.Users}, nil
}

// SendRequest opens a pending handshake toward the resolved tenant. A pending
// request of the same type already linking the pair, in either direction,
// blocks a duplicate.
func (s *service) SendRequest(ctx context.Context, requesterID string, req SendRequestRequest) (*RequestDTO, error) {
	if strings.TrimSpace(requesterID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester id is required")
	}
	requestedID := strings.TrimSpace(req.RequestedPublicID)
	if requestedID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested_public_id is required")
	}
	if requestedID == requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot open a relationship with yourself")
	}
	relType, err := enums.ParseRelationshipType(strings.TrimSpace(req.RelationshipType))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse relationship type")
	}

	if _, err := s.users.FindByPublicID(ctx, requestedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "requested user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve requested user")
	}

	existing, err := s.repo.FindPendingBetween(ctx, requesterID, requestedID, relType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup pending request")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "relationship request already exists")
	}

	request := &models.RelationshipRequest{
		RequesterID:      requesterID,
		RequestedID:      requestedID,
		RelationshipType: relType,
		Status:           enums.RequestStatusPending,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create request")
	}
	return requestFromModel(request), nil
}

// Respond resolves a pending handshake. Only the requested party may act, and
// the conditional status flip inside the transaction means a request accepted
// twice concurrently fans out its edges exactly once.
func (s *service) Respond(ctx context.Context, requestID uuid.UUID, action, callerID string) (*RequestDTO, error) {
	var target enums.RequestStatus
	switch action {
	case ActionAccept:
		target = enums.RequestStatusAccepted
	case ActionReject:
		target = enums.RequestStatusRejected
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be accept or reject")
	}

	request, err := s.repo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "relationship request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load request")
	}
	if request.RequestedID != callerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "relationship request not found")
	}
	if request.Status != enums.RequestStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "relationship request already resolved")
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		affected, err := txRepo.FlipRequestStatus(ctx, request.ID, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flip request status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "relationship request already resolved")
		}
		if target != enums.RequestStatusAccepted {
			return nil
		}
		return createEdges(ctx, txRepo, request)
	})
	if err != nil {
		return nil, err
	}

	request.Status = target
	return requestFromModel(request), nil
}

// createEdges writes the mirrored pair of permanent edges for an accepted
// handshake. A supplier request means the requester gains a supplier and the
// requested party gains a consumer; a consumer request mirrors that.
func createEdges(ctx context.Context, repo *Repository, request *models.RelationshipRequest) error {
	supplierOwner, consumerOwner := request.RequesterID, request.RequestedID
	if request.RelationshipType == enums.RelationshipTypeConsumer {
		supplierOwner, consumerOwner = request.RequestedID, request.RequesterID
	}

	supplierEdge := &models.SupplierRelationship{OwnerID: supplierOwner, PartnerID: consumerOwner}
	if err := repo.CreateSupplierEdge(ctx, supplierEdge); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier edge")
	}
	consumerEdge := &models.ConsumerRelationship{OwnerID: consumerOwner, PartnerID: supplierOwner}
	if err := repo.CreateConsumerEdge(ctx, consumerEdge); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create consumer edge")
	}
	return nil
}

// ListRequests returns every handshake the owner appears in.
func (s *service) ListRequests(ctx context.Context, ownerID string) ([]RequestDTO, error) {
	rows, err := s.repo.ListRequestsForOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list requests")
	}
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *requestFromModel(&rows[i]))
	}
	return out, nil
}

// ListSuppliers returns the owner's supplier partners, enriched with names.
func (s *service) ListSuppliers(ctx context.Context, ownerID string) ([]PartnerDTO, error) {
	rows, err := s.repo.ListSuppliers(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list suppliers")
	}
	out := make([]PartnerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, PartnerDTO{PartnerID: rows[i].PartnerID, Since: rows[i].CreatedAt})
	}
	return s.attachNames(ctx, out)
}

// ListConsumers returns the owner's consumer partners, enriched with names.
func (s *service) ListConsumers(ctx context.Context, ownerID string) ([]PartnerDTO, error) {
	rows, err := s.repo.ListConsumers(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list consumers")
	}
	out := make([]PartnerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, PartnerDTO{PartnerID: rows[i].PartnerID, Since: rows[i].CreatedAt})
	}
	return s.attachNames(ctx, out)
}

func (s *service) attachNames(ctx context.Context, partners []PartnerDTO) ([]PartnerDTO, error) {
	if len(partners) == 0 {
		return partners, nil
	}
	ids := make([]string, 0, len(partners))
	for i := range partners {
		ids = append(ids, partners[i].PartnerID)
	}
	found, err := s.users.FindManyByPublicIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve partners")
	}
	for i := range partners {
		if u, ok := found[partners[i].PartnerID]; ok {
			partners[i].BusinessName = u.BusinessName
		}
	}
	return partners, nil
}
