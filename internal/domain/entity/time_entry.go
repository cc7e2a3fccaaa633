package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry representa un registro de tiempo de un usuario, opcionalmente
// asociado a un proyecto y/o tarea. A diferencia del resto de entidades,
// el campo estampado del creador es UserID (el tiempo pertenece al usuario).
type TimeEntry struct {
	ID              string
	OrganizationID  string
	UserID          string
	ProjectID       string // opcional
	TaskID          string // opcional
	Description     string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes int
	Billable        bool
	HourlyRate      decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Se llenan en listados (joins con projects y tasks).
	Project *ProjectRef
	Task    *TaskRef
}

// ComputeDuration recalcula DurationMinutes a partir de StartTime y EndTime.
// Sin EndTime (timer corriendo) la duración queda en cero.
func (e *TimeEntry) ComputeDuration() {
	if e.EndTime == nil || !e.EndTime.After(e.StartTime) {
		e.DurationMinutes = 0
		return
	}
	e.DurationMinutes = int(e.EndTime.Sub(e.StartTime) / time.Minute)
}
