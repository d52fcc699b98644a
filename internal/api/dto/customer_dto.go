package dto

import (
	"time"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

// CustomerMetadataPayload mirrors the structured metadata record. Absent
// fields are left untouched on update.
type CustomerMetadataPayload struct {
	Company  *string `json:"company,omitempty"`
	Plan     *string `json:"plan,omitempty"`
	Location *string `json:"location,omitempty"`
	Source   *string `json:"source,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
}

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	Email    string                  `json:"email"`
	Name     string                  `json:"name"`
	Metadata CustomerMetadataPayload `json:"metadata"`
}

// UpdateCustomerRequest payload.
type UpdateCustomerRequest struct {
	Email    string                  `json:"email,omitempty"`
	Name     string                  `json:"name,omitempty"`
	Metadata CustomerMetadataPayload `json:"metadata"`
}

// CustomerResponse serializes a customer.
type CustomerResponse struct {
	ID        string                  `json:"id"`
	Email     string                  `json:"email"`
	Name      string                  `json:"name"`
	Metadata  CustomerMetadataPayload `json:"metadata"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// ToDomain converts the payload into the domain metadata record.
func (p CustomerMetadataPayload) ToDomain() domain.CustomerMetadata {
	return domain.CustomerMetadata{
		Company:  p.Company,
		Plan:     p.Plan,
		Location: p.Location,
		Source:   p.Source,
		TeamID:   p.TeamID,
	}
}

// MetadataFromDomain converts domain metadata for responses.
func MetadataFromDomain(m domain.CustomerMetadata) CustomerMetadataPayload {
	return CustomerMetadataPayload{
		Company:  m.Company,
		Plan:     m.Plan,
		Location: m.Location,
		Source:   m.Source,
		TeamID:   m.TeamID,
	}
}
