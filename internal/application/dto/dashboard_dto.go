package dto

import "github.com/shopspring/decimal"

// DashboardResponse agregados del tenant para la vista principal.
type DashboardResponse struct {
	Clients         int             `json:"clients"`
	ActiveProjects  int             `json:"active_projects"`
	OpenTasks       int             `json:"open_tasks"`
	CompletedTasks  int             `json:"completed_tasks"`
	Leads           int             `json:"leads"`
	InvoicedTotal   decimal.Decimal `json:"invoiced_total"`
	PaidTotal       decimal.Decimal `json:"paid_total"`
	OverdueTotal    decimal.Decimal `json:"overdue_total"`
	TrackedMinutes  int             `json:"tracked_minutes"`
	BillableMinutes int             `json:"billable_minutes"`
}
