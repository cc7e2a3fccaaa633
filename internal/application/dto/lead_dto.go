package dto

import "time"

// CreateLeadRequest alta de lead.
type CreateLeadRequest struct {
	Name       string `json:"name" validate:"required"`
	Company    string `json:"company"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Source     string `json:"source"`
	Status     string `json:"status"`
	Score      int    `json:"score"`
	Notes      string `json:"notes"`
	AssignedTo string `json:"assigned_to"`
}

// UpdateLeadRequest edición parcial de lead.
type UpdateLeadRequest struct {
	Name       *string `json:"name"`
	Company    *string `json:"company"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Source     *string `json:"source"`
	Status     *string `json:"status"`
	Score      *int    `json:"score"`
	Notes      *string `json:"notes"`
	AssignedTo *string `json:"assigned_to"`
}

// LeadResponse lead expuesto por la API.
type LeadResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Company        string    `json:"company,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Source         string    `json:"source,omitempty"`
	Status         string    `json:"status"`
	Score          int       `json:"score"`
	Notes          string    `json:"notes,omitempty"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
