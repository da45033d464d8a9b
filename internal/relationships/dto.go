package relationships

import (
	"time"

	"github.com/google/uuid"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
)

// SendRequestRequest opens a handshake toward another tenant.
type SendRequestRequest struct {
	RequestedPublicID string `json:"requested_public_id" validate:"required"`
	RelationshipType  string `json:"relationship_type" validate:"required"`
}

// RespondRequest accepts or rejects a pending handshake.
type RespondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

// RequestDTO is the transport shape of a handshake.
type RequestDTO struct {
	ID               uuid.UUID              `json:"id"`
	RequesterID      string                 `json:"requester_id"`
	RequestedID      string                 `json:"requested_id"`
	RelationshipType enums.RelationshipType `json:"relationship_type"`
	Status           enums.RequestStatus    `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// PartnerDTO is one permanent trading edge from the owner's point of view.
type PartnerDTO struct {
	PartnerID    string    `json:"partner_id"`
	BusinessName string    `json:"business_name,omitempty"`
	Since        time.Time `json:"since"`
}

func requestFromModel(r *models.RelationshipRequest) *RequestDTO {
	if r == nil {
		return nil
	}
	return &RequestDTO{
		ID:               r.ID,
		RequesterID:      r.RequesterID,
		RequestedID:      r.RequestedID,
		RelationshipType: r.RelationshipType,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
