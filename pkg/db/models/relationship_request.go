package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/digifund/digifund-backend/pkg/enums"
)

// RelationshipRequest is a pending handshake between two tenants. The
// relationship type is expressed from the requester's point of view.
type RelationshipRequest struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequesterID      string                 `gorm:"column:requester_id;not null;index"`
	RequestedID      string                 `gorm:"column:requested_id;not null;index"`
	RelationshipType enums.RelationshipType `gorm:"column:relationship_type;type:text;not null"`
	Status           enums.RequestStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
