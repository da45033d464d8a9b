package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/digifund/digifund-backend/pkg/db/models"
	"github.com/digifund/digifund-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID      `json:"id"`
	PublicID     string         `json:"public_id"`
	Email        string         `json:"email"`
	Phone        *string        `json:"phone,omitempty"`
	BusinessName string         `json:"business_name"`
	Role         enums.UserRole `json:"role"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	PublicID     string
	Email        string
	Phone        *string
	PasswordHash string
	BusinessName string
	Role         enums.UserRole
	IsActive     *bool
}

// PartyDTO is the minimal public projection used when another tenant needs to
// reference this one (invoice counterparties, relationship partners).
type PartyDTO struct {
	PublicID     string  `json:"public_id"`
	BusinessName string  `json:"business_name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		PublicID:     u.PublicID,
		Email:        u.Email,
		Phone:        u.Phone,
		BusinessName: u.BusinessName,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func PartyFromModel(u *models.User) *PartyDTO {
	if u == nil {
		return nil
	}
	return &PartyDTO{
		PublicID:     u.PublicID,
		BusinessName: u.BusinessName,
		Email:        u.Email,
		Phone:        u.Phone,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		PublicID:     c.PublicID,
		Email:        c.Email,
		Phone:        c.Phone,
		PasswordHash: c.PasswordHash,
		BusinessName: c.BusinessName,
		Role:         c.Role,
		IsActive:     isActive,
	}
}
