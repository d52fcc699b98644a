package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	apperrors "github.com/devtama101/customer-support-dashboard/pkg/util"
)

// CustomerService manages the customer directory.
type CustomerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService builds the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// CustomerInput carries create/update fields.
type CustomerInput struct {
	Email    string
	Name     string
	Metadata domain.CustomerMetadata
}

// Create registers a customer. Emails are stored lowercased and must be
// unique.
func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"name": "required"})
	}

	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	customer := &domain.Customer{
		Email:    email,
		Name:     strings.TrimSpace(input.Name),
		Metadata: input.Metadata,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// Get returns one customer by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// List returns customers, optionally filtered by a search term over email
// and name.
func (s *CustomerService) List(ctx context.Context, search *string, limit, offset int) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, search, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// UpdateMetadata merges the patch into the stored metadata. Unspecified
// fields keep their current values; the write is read-modify-write.
func (s *CustomerService) UpdateMetadata(ctx context.Context, id string, patch domain.CustomerMetadata) (*domain.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Metadata = customer.Metadata.Merge(patch)
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// Update replaces name and email.
func (s *CustomerService) Update(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		email, err := normalizeEmail(input.Email)
		if err != nil {
			return nil, err
		}
		customer.Email = email
	}
	if strings.TrimSpace(input.Name) != "" {
		customer.Name = strings.TrimSpace(input.Name)
	}
	customer.Metadata = customer.Metadata.Merge(input.Metadata)

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// Delete removes a customer.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.NewValidationError("email is required", map[string]any{"email": "required"})
	}
	if !strings.Contains(email, "@") {
		return "", apperrors.NewValidationError("email is invalid", map[string]any{"email": "invalid"})
	}
	return email, nil
}
