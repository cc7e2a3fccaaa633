package entity

import "time"

// Estados válidos del tenant (enum tenant_status).
const (
	TenantActive    = "active"
	TenantSuspended = "suspended"
	TenantTrial     = "trial"
	TenantCancelled = "cancelled"
)

// Planes de suscripción (enum subscription_plan).
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Organization representa el tenant del sistema: la frontera de aislamiento de datos.
// Toda entidad scoped (Client, Project, Task, Invoice, Proposal, TimeEntry, Lead)
// lleva OrganizationID obligatorio y jamás se lee ni escribe sin filtrar por él.
type Organization struct {
	ID               string
	Name             string
	Slug             string // único, derivado del nombre (ver pkg slug)
	Status           string // ver constantes Tenant*
	SubscriptionPlan string // ver constantes Plan*
	Settings         map[string]any
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanOperate indica si el tenant puede usar la aplicación (active o trial).
// suspended y cancelled bloquean todas las rutas scoped con 403.
func (o *Organization) CanOperate() bool {
	return TenantStatusOperable(o.Status)
}

// TenantStatusOperable es la regla de CanOperate a nivel de estado, para
// callers que sólo tienen el estado y no la entidad completa.
func TenantStatusOperable(status string) bool {
	return status == TenantActive || status == TenantTrial
}

// IsValidTenantStatus valida el enum tenant_status.
func IsValidTenantStatus(s string) bool {
	switch s {
	case TenantActive, TenantSuspended, TenantTrial, TenantCancelled:
		return true
	}
	return false
}

// IsValidPlan valida el enum subscription_plan.
func IsValidPlan(p string) bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}
