package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo implementación de TimeEntryRepository (usable con pool o tx).
type TimeEntryRepo struct {
	q Querier
}

// NewTimeEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTimeEntryRepository(q Querier) *TimeEntryRepo {
	return &TimeEntryRepo{q: q}
}

const timeEntryColumns = `
	id, organization_id, user_id, COALESCE(project_id::text, ''), COALESCE(task_id::text, ''),
	COALESCE(description, ''), start_time, end_time, COALESCE(duration_minutes, 0),
	COALESCE(billable, true), COALESCE(hourly_rate, 0), created_at, updated_at`

// Create persiste un registro de tiempo con user_id ya estampado.
func (r *TimeEntryRepo) Create(ctx context.Context, e *entity.TimeEntry) error {
	query := `
		INSERT INTO time_entries (id, organization_id, user_id, project_id, task_id, description, start_time, end_time, duration_minutes, billable, hourly_rate, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, NULLIF($5, '')::uuid, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.OrganizationID, e.UserID, e.ProjectID, e.TaskID, e.Description,
		e.StartTime, e.EndTime, e.DurationMinutes, e.Billable, e.HourlyRate,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

// GetByID obtiene un registro de tiempo por ID (sin joins).
func (r *TimeEntryRepo) GetByID(ctx context.Context, id string) (*entity.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = $1`
	var e entity.TimeEntry
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.OrganizationID, &e.UserID, &e.ProjectID, &e.TaskID,
		&e.Description, &e.StartTime, &e.EndTime, &e.DurationMinutes,
		&e.Billable, &e.HourlyRate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get time entry: %w", err)
	}
	return &e, nil
}

// ListByOrganization lista los registros del tenant con proyecto y tarea
// embebidos, ordenados por start_time descendente.
func (r *TimeEntryRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.TimeEntry, error) {
	query := `
		SELECT e.id, e.organization_id, e.user_id, COALESCE(e.project_id::text, ''), COALESCE(e.task_id::text, ''),
		       COALESCE(e.description, ''), e.start_time, e.end_time, COALESCE(e.duration_minutes, 0),
		       COALESCE(e.billable, true), COALESCE(e.hourly_rate, 0), e.created_at, e.updated_at,
		       COALESCE(p.id::text, ''), COALESCE(p.name, ''),
		       COALESCE(t.id::text, ''), COALESCE(t.title, '')
		FROM time_entries e
		LEFT JOIN projects p ON p.id = e.project_id
		LEFT JOIN tasks t ON t.id = e.task_id
		WHERE e.organization_id = $1
		ORDER BY e.start_time DESC`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.TimeEntry
	for rows.Next() {
		var e entity.TimeEntry
		var projID, projName, taskID, taskTitle string
		if err := rows.Scan(
			&e.ID, &e.OrganizationID, &e.UserID, &e.ProjectID, &e.TaskID,
			&e.Description, &e.StartTime, &e.EndTime, &e.DurationMinutes,
			&e.Billable, &e.HourlyRate, &e.CreatedAt, &e.UpdatedAt,
			&projID, &projName,
			&taskID, &taskTitle,
		); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		if projID != "" {
			e.Project = &entity.ProjectRef{ID: projID, Name: projName}
		}
		if taskID != "" {
			e.Task = &entity.TaskRef{ID: taskID, Title: taskTitle}
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Update actualiza un registro de tiempo (duración ya recalculada en dominio).
func (r *TimeEntryRepo) Update(ctx context.Context, e *entity.TimeEntry) error {
	query := `
		UPDATE time_entries
		SET project_id = NULLIF($2, '')::uuid, task_id = NULLIF($3, '')::uuid, description = $4,
		    start_time = $5, end_time = $6, duration_minutes = $7, billable = $8,
		    hourly_rate = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProjectID, e.TaskID, e.Description, e.StartTime, e.EndTime,
		e.DurationMinutes, e.Billable, e.HourlyRate, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	return nil
}

// Delete elimina un registro de tiempo por ID.
func (r *TimeEntryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	return nil
}
