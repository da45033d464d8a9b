package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierRelationship is a permanent edge: PartnerID supplies OwnerID.
// Edges are written in mirrored pairs when a handshake is accepted and never
// cascade back to the request that created them.
type SupplierRelationship struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   string    `gorm:"column:owner_id;not null;index;uniqueIndex:idx_supplier_owner_partner"`
	PartnerID string    `gorm:"column:partner_id;not null;uniqueIndex:idx_supplier_owner_partner"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ConsumerRelationship is the mirrored edge: PartnerID buys from OwnerID.
type ConsumerRelationship struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   string    `gorm:"column:owner_id;not null;index;uniqueIndex:idx_consumer_owner_partner"`
	PartnerID string    `gorm:"column:partner_id;not null;uniqueIndex:idx_consumer_owner_partner"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
