package crm

import (
	"context"

	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/cache"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

// DashboardUseCase agregados del tenant para la vista principal.
type DashboardUseCase struct {
	repo  repository.AnalyticsRepository
	cache *cache.Store
}

// NewDashboardUseCase construye el caso de uso del dashboard.
func NewDashboardUseCase(repo repository.AnalyticsRepository, cacheStore *cache.Store) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, cache: cacheStore}
}

// Get devuelve los agregados del tenant (cacheado).
func (uc *DashboardUseCase) Get(ctx context.Context, organizationID string) (*dto.DashboardResponse, error) {
	key := cache.Key{Entity: "dashboard", TenantID: organizationID}
	return cache.GetTyped(ctx, uc.cache, key, func(ctx context.Context) (*dto.DashboardResponse, error) {
		stats, err := uc.repo.DashboardStats(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		return &dto.DashboardResponse{
			Clients:         stats.Clients,
			ActiveProjects:  stats.ActiveProjects,
			OpenTasks:       stats.OpenTasks,
			CompletedTasks:  stats.CompletedTasks,
			Leads:           stats.Leads,
			InvoicedTotal:   stats.InvoicedTotal,
			PaidTotal:       stats.PaidTotal,
			OverdueTotal:    stats.OverdueTotal,
			TrackedMinutes:  stats.TrackedMinutes,
			BillableMinutes: stats.BillableMinutes,
		}, nil
	})
}
