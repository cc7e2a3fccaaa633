package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardStats agregados por tenant para el dashboard.
type DashboardStats struct {
	Clients         int
	ActiveProjects  int
	OpenTasks       int
	CompletedTasks  int
	Leads           int
	InvoicedTotal   decimal.Decimal
	PaidTotal       decimal.Decimal
	OverdueTotal    decimal.Decimal
	TrackedMinutes  int
	BillableMinutes int
}

// AnalyticsRepository define consultas de agregación scoped por organización.
type AnalyticsRepository interface {
	DashboardStats(ctx context.Context, organizationID string) (*DashboardStats, error)
}
