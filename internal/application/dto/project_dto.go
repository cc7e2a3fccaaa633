package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectRefResponse referencia embebida de proyecto en otras respuestas.
type ProjectRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateProjectRequest alta de proyecto.
type CreateProjectRequest struct {
	ClientID    string          `json:"client_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Budget      decimal.Decimal `json:"budget"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	AssignedTo  []string        `json:"assigned_to"`
}

// UpdateProjectRequest edición parcial de proyecto.
type UpdateProjectRequest struct {
	ClientID    *string          `json:"client_id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	Budget      *decimal.Decimal `json:"budget"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
	AssignedTo  []string         `json:"assigned_to"`
}

// ProjectResponse proyecto expuesto por la API.
type ProjectResponse struct {
	ID             string             `json:"id"`
	OrganizationID string             `json:"organization_id"`
	ClientID       string             `json:"client_id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Status         string             `json:"status"`
	Budget         decimal.Decimal    `json:"budget"`
	HourlyRate     decimal.Decimal    `json:"hourly_rate"`
	StartDate      *time.Time         `json:"start_date,omitempty"`
	EndDate        *time.Time         `json:"end_date,omitempty"`
	AssignedTo     []string           `json:"assigned_to,omitempty"`
	CreatedBy      string             `json:"created_by,omitempty"`
	Client         *ClientRefResponse `json:"client,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
