package domain

import "time"

// CustomerMetadata holds the free-form attributes attached to a customer.
// Updates merge field-by-field: nil fields leave the stored value untouched.
type CustomerMetadata struct {
	Company  *string `json:"company,omitempty"`
	Plan     *string `json:"plan,omitempty"`
	Location *string `json:"location,omitempty"`
	Source   *string `json:"source,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
}

// Merge returns a copy of m with the non-nil fields of patch applied.
func (m CustomerMetadata) Merge(patch CustomerMetadata) CustomerMetadata {
	if patch.Company != nil {
		m.Company = patch.Company
	}
	if patch.Plan != nil {
		m.Plan = patch.Plan
	}
	if patch.Location != nil {
		m.Location = patch.Location
	}
	if patch.Source != nil {
		m.Source = patch.Source
	}
	if patch.TeamID != nil {
		m.TeamID = patch.TeamID
	}
	return m
}

// Customer is an external requester identified by email.
type Customer struct {
	ID        string
	Email     string
	Name      string
	Metadata  CustomerMetadata
	CreatedAt time.Time
	UpdatedAt time.Time
}
