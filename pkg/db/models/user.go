package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/digifund/digifund-backend/pkg/enums"
)

// User is a tenant identity. The row id is private and never routed; PublicID
// is the role-prefixed identifier that scopes everything the tenant owns.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PublicID     string         `gorm:"column:public_id;uniqueIndex;not null"`
	Email        string         `gorm:"column:email;uniqueIndex;not null"`
	Phone        *string        `gorm:"column:phone;index"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	BusinessName string         `gorm:"column:business_name;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
