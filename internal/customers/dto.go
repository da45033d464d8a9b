package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/digifund/digifund-backend/pkg/db/models"
)

// CreateCustomerRequest is the payload for a new contact record.
type CreateCustomerRequest struct {
	Name    string   `json:"name" validate:"required"`
	Email   *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string  `json:"phone,omitempty"`
	Address *string  `json:"address,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateCustomerRequest carries partial updates; nil fields are left alone.
type UpdateCustomerRequest struct {
	Name    *string   `json:"name,omitempty"`
	Email   *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string   `json:"phone,omitempty"`
	Address *string   `json:"address,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// CustomerDTO is the transport shape of a contact record.
type CustomerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomersPageDTO is one page of a tenant's contacts.
type CustomersPageDTO struct {
	Customers []CustomerDTO  `json:"customers"`
	Page      PaginationMeta `json:"page"`
}

// PaginationMeta carries the total row count and the opaque next cursor.
type PaginationMeta struct {
	Total int    `json:"total"`
	Next  string `json:"next,omitempty"`
}

func fromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	tags := make([]string, 0, len(c.Tags))
	tags = append(tags, c.Tags...)
	return &CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Tags:      tags,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
