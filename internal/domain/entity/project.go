package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos del proyecto (enum project_status).
const (
	ProjectDraft     = "draft"
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// Project representa un proyecto asociado a un cliente (scoped por organización).
type Project struct {
	ID             string
	OrganizationID string
	ClientID       string
	Name           string
	Description    string
	Status         string // ver constantes Project*
	Budget         decimal.Decimal
	HourlyRate     decimal.Decimal
	StartDate      *time.Time
	EndDate        *time.Time
	AssignedTo     []string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Client se llena en listados (join con clients: id, name, company).
	Client *ClientRef
}

// ProjectRef referencia embebida de proyecto en listados.
type ProjectRef struct {
	ID   string
	Name string
}

// IsValidProjectStatus valida el enum project_status.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectDraft, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}
