package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTimeEntryRequest alta de registro de tiempo. user_id se estampa en el
// servidor con el usuario autenticado; duration_minutes se deriva de start/end.
type CreateTimeEntryRequest struct {
	ProjectID   string          `json:"project_id"`
	TaskID      string          `json:"task_id"`
	Description string          `json:"description"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     *time.Time      `json:"end_time"`
	Billable    *bool           `json:"billable"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
}

// UpdateTimeEntryRequest edición parcial de registro de tiempo.
type UpdateTimeEntryRequest struct {
	ProjectID   *string          `json:"project_id"`
	TaskID      *string          `json:"task_id"`
	Description *string          `json:"description"`
	StartTime   *time.Time       `json:"start_time"`
	EndTime     *time.Time       `json:"end_time"`
	Billable    *bool            `json:"billable"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
}

// TimeEntryResponse registro de tiempo expuesto por la API.
type TimeEntryResponse struct {
	ID              string              `json:"id"`
	OrganizationID  string              `json:"organization_id"`
	UserID          string              `json:"user_id"`
	ProjectID       string              `json:"project_id,omitempty"`
	TaskID          string              `json:"task_id,omitempty"`
	Description     string              `json:"description,omitempty"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         *time.Time          `json:"end_time,omitempty"`
	DurationMinutes int                 `json:"duration_minutes"`
	Billable        bool                `json:"billable"`
	HourlyRate      decimal.Decimal     `json:"hourly_rate"`
	Project         *ProjectRefResponse `json:"project,omitempty"`
	Task            *TaskRefResponse    `json:"task,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
