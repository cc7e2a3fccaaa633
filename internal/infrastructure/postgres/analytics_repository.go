package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de agregación para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// DashboardStats agrega los contadores y totales del tenant en una sola consulta.
// Todos los subqueries filtran por organization_id para no cruzar tenants.
func (r *AnalyticsRepo) DashboardStats(ctx context.Context, organizationID string) (*repository.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM clients WHERE organization_id = $1),
			(SELECT COUNT(*) FROM projects WHERE organization_id = $1 AND status = 'active'),
			(SELECT COUNT(*) FROM tasks WHERE organization_id = $1 AND status <> 'completed'),
			(SELECT COUNT(*) FROM tasks WHERE organization_id = $1 AND status = 'completed'),
			(SELECT COUNT(*) FROM leads WHERE organization_id = $1),
			(SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE organization_id = $1 AND status <> 'cancelled'),
			(SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE organization_id = $1 AND status = 'paid'),
			(SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE organization_id = $1 AND status = 'overdue'),
			(SELECT COALESCE(SUM(duration_minutes), 0) FROM time_entries WHERE organization_id = $1),
			(SELECT COALESCE(SUM(duration_minutes), 0) FROM time_entries WHERE organization_id = $1 AND billable)`
	var s repository.DashboardStats
	err := r.q.QueryRow(ctx, query, organizationID).Scan(
		&s.Clients, &s.ActiveProjects, &s.OpenTasks, &s.CompletedTasks, &s.Leads,
		&s.InvoicedTotal, &s.PaidTotal, &s.OverdueTotal,
		&s.TrackedMinutes, &s.BillableMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &s, nil
}
