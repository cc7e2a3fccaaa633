package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación de ProjectRepository (usable con pool o tx).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Create persiste un nuevo proyecto.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (id, organization_id, client_id, name, description, status, budget, hourly_rate, start_date, end_date, assigned_to, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.OrganizationID, p.ClientID, p.Name, p.Description, p.Status,
		p.Budget, p.HourlyRate, p.StartDate, p.EndDate, p.AssignedTo,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID (sin joins).
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	query := `
		SELECT id, organization_id, client_id, name, COALESCE(description, ''),
		       COALESCE(status, 'draft'), COALESCE(budget, 0), COALESCE(hourly_rate, 0),
		       start_date, end_date, COALESCE(assigned_to, '{}'), COALESCE(created_by::text, ''),
		       created_at, updated_at
		FROM projects WHERE id = $1`
	var p entity.Project
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OrganizationID, &p.ClientID, &p.Name, &p.Description,
		&p.Status, &p.Budget, &p.HourlyRate,
		&p.StartDate, &p.EndDate, &p.AssignedTo, &p.CreatedBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// ListByOrganization lista los proyectos del tenant con el cliente embebido
// (join clients: id, name, company), más recientes primero.
func (r *ProjectRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Project, error) {
	query := `
		SELECT p.id, p.organization_id, p.client_id, p.name, COALESCE(p.description, ''),
		       COALESCE(p.status, 'draft'), COALESCE(p.budget, 0), COALESCE(p.hourly_rate, 0),
		       p.start_date, p.end_date, COALESCE(p.assigned_to, '{}'), COALESCE(p.created_by::text, ''),
		       p.created_at, p.updated_at,
		       COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.company, '')
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE p.organization_id = $1
		ORDER BY p.created_at DESC`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		var p entity.Project
		var clientID, clientName, clientCompany string
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.ClientID, &p.Name, &p.Description,
			&p.Status, &p.Budget, &p.HourlyRate,
			&p.StartDate, &p.EndDate, &p.AssignedTo, &p.CreatedBy,
			&p.CreatedAt, &p.UpdatedAt,
			&clientID, &clientName, &clientCompany,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if clientID != "" {
			p.Client = &entity.ClientRef{ID: clientID, Name: clientName, Company: clientCompany}
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza un proyecto.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	query := `
		UPDATE projects
		SET client_id = $2, name = $3, description = $4, status = $5, budget = $6,
		    hourly_rate = $7, start_date = $8, end_date = $9, assigned_to = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ClientID, p.Name, p.Description, p.Status, p.Budget,
		p.HourlyRate, p.StartDate, p.EndDate, p.AssignedTo, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete elimina un proyecto por ID.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
