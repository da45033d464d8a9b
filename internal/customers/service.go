package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/digifund/digifund-backend/pkg/db/models"
	pkgerrors "github.com/digifund/digifund-backend/pkg/errors"
)

// Service exposes the tenant contact-book rules.
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateCustomerRequest) (*CustomerDTO, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*CustomerDTO, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, req UpdateCustomerRequest) (*CustomerDTO, error)
	Remove(ctx context.Context, ownerID string, id uuid.UUID) error
	List(ctx context.Context, ownerID string, cursor string, limit int) (CustomersPageDTO, error)
}

type service struct {
	repo *Repository
}

// ServiceParams groups dependencies for the customers service.
type ServiceParams struct {
	Repo *Repository
}

// NewService builds a customers service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customers repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Create inserts a new contact for the owner.
func (s *service) Create(ctx context.Context, ownerID string, req CreateCustomerRequest) (*CustomerDTO, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	customer := &models.Customer{
		OwnerID: ownerID,
		Name:    name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Tags:    pq.StringArray(req.Tags),
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
	}
	return fromModel(customer), nil
}

// Get returns one contact, distinguishing a missing record from one owned by
// a different tenant.
func (s *service) Get(ctx context.Context, ownerID string, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return fromModel(customer), nil
}

// Update applies the non-nil fields and persists the record.
func (s *service) Update(ctx context.Context, ownerID string, id uuid.UUID, req UpdateCustomerRequest) (*CustomerDTO, error) {
	customer, err := s.load(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		customer.Name = name
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Address != nil {
		customer.Address = req.Address
	}
	if req.Tags != nil {
		customer.Tags = pq.StringArray(*req.Tags)
	}

	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}
	return fromModel(customer), nil
}

// Remove deletes the owner's record.
func (s *service) Remove(ctx context.Context, ownerID string, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete customer")
	}
	if affected == 0 {
		if _, err := s.load(ctx, ownerID, id); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

// List returns the owner's contact page.
func (s *service) List(ctx context.Context, ownerID string, cursor string, limit int) (CustomersPageDTO, error) {
	rows, next, err := s.repo.List(ctx, ownerID, cursor, limit)
	if err != nil {
		return CustomersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}
	total, err := s.repo.Count(ctx, ownerID)
	if err != nil {
		return CustomersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count customers")
	}

	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return CustomersPageDTO{
		Customers: out,
		Page:      PaginationMeta{Total: int(total), Next: next},
	}, nil
}

func (s *service) load(ctx context.Context, ownerID string, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	if customer.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "customer belongs to another tenant")
	}
	return customer, nil
}
