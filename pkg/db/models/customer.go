package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Customer is a tenant-scoped contact record used by search, RAG answers, and exports.
type Customer struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID   string         `gorm:"column:owner_id;not null;index"`
	Name      string         `gorm:"column:name;not null"`
	Email     *string        `gorm:"column:email"`
	Phone     *string        `gorm:"column:phone"`
	Address   *string        `gorm:"column:address"`
	Tags      pq.StringArray `gorm:"column:tags;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
