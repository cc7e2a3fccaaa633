package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/crm-pro/internal/domain/entity"
	"github.com/tu-usuario/crm-pro/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación de TaskRepository (usable con pool o tx).
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `
	id, organization_id, COALESCE(project_id::text, ''), COALESCE(client_id::text, ''),
	title, COALESCE(description, ''), COALESCE(status, 'todo'), COALESCE(priority, 'medium'),
	COALESCE(assigned_to::text, ''), due_date, completed_at, COALESCE(created_by::text, ''),
	created_at, updated_at`

// Create persiste una nueva tarea. FKs opcionales vacíos se guardan como NULL.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (id, organization_id, project_id, client_id, title, description, status, priority, assigned_to, due_date, completed_at, created_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.OrganizationID, t.ProjectID, t.ClientID, t.Title, t.Description,
		t.Status, t.Priority, t.AssignedTo, t.DueDate, t.CompletedAt,
		t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea por ID (sin joins ni subtareas).
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByOrganization lista las tareas del tenant con proyecto, cliente y subtareas
// embebidos, más recientes primero. projectID opcional filtra por proyecto.
// Las subtareas se cargan en una segunda consulta para no multiplicar filas.
func (r *TaskRepo) ListByOrganization(ctx context.Context, organizationID, projectID string) ([]*entity.Task, error) {
	query := `
		SELECT t.id, t.organization_id, COALESCE(t.project_id::text, ''), COALESCE(t.client_id::text, ''),
		       t.title, COALESCE(t.description, ''), COALESCE(t.status, 'todo'), COALESCE(t.priority, 'medium'),
		       COALESCE(t.assigned_to::text, ''), t.due_date, t.completed_at, COALESCE(t.created_by::text, ''),
		       t.created_at, t.updated_at,
		       COALESCE(p.id::text, ''), COALESCE(p.name, ''),
		       COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.company, '')
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		LEFT JOIN clients c ON c.id = t.client_id
		WHERE t.organization_id = $1 AND ($2 = '' OR t.project_id = NULLIF($2, '')::uuid)
		ORDER BY t.created_at DESC`
	rows, err := r.q.Query(ctx, query, organizationID, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var list []*entity.Task
	byID := make(map[string]*entity.Task)
	for rows.Next() {
		var t entity.Task
		var projID, projName, clientID, clientName, clientCompany string
		if err := rows.Scan(
			&t.ID, &t.OrganizationID, &t.ProjectID, &t.ClientID,
			&t.Title, &t.Description, &t.Status, &t.Priority,
			&t.AssignedTo, &t.DueDate, &t.CompletedAt, &t.CreatedBy,
			&t.CreatedAt, &t.UpdatedAt,
			&projID, &projName,
			&clientID, &clientName, &clientCompany,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if projID != "" {
			t.Project = &entity.ProjectRef{ID: projID, Name: projName}
		}
		if clientID != "" {
			t.Client = &entity.ClientRef{ID: clientID, Name: clientName, Company: clientCompany}
		}
		list = append(list, &t)
		byID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	if err := r.attachSubtasks(ctx, organizationID, byID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TaskRepo) attachSubtasks(ctx context.Context, organizationID string, byID map[string]*entity.Task) error {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE organization_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return fmt.Errorf("list subtasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return fmt.Errorf("scan subtask: %w", err)
		}
		if parent, ok := byID[s.ParentTaskID]; ok {
			parent.Subtasks = append(parent.Subtasks, s)
		}
	}
	return rows.Err()
}

// Update actualiza una tarea (incluye status y completed_at ya aplicados en dominio).
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	query := `
		UPDATE tasks
		SET project_id = NULLIF($2, '')::uuid, client_id = NULLIF($3, '')::uuid, title = $4,
		    description = $5, status = $6, priority = $7, assigned_to = NULLIF($8, '')::uuid,
		    due_date = $9, completed_at = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProjectID, t.ClientID, t.Title, t.Description, t.Status,
		t.Priority, t.AssignedTo, t.DueDate, t.CompletedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// Delete elimina una tarea por ID (las subtareas caen por FK en cascada).
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

const subtaskColumns = `
	id, organization_id, parent_task_id, title, COALESCE(description, ''),
	COALESCE(status, 'todo'), COALESCE(assigned_to::text, ''), due_date, completed_at,
	created_at, updated_at`

// CreateSubtask persiste una nueva subtarea.
func (r *TaskRepo) CreateSubtask(ctx context.Context, s *entity.Subtask) error {
	query := `
		INSERT INTO subtasks (id, organization_id, parent_task_id, title, description, status, assigned_to, due_date, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrganizationID, s.ParentTaskID, s.Title, s.Description, s.Status,
		s.AssignedTo, s.DueDate, s.CompletedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subtask: %w", err)
	}
	return nil
}

// GetSubtaskByID obtiene una subtarea por ID.
func (r *TaskRepo) GetSubtaskByID(ctx context.Context, id string) (*entity.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE id = $1`
	s, err := scanSubtask(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subtask: %w", err)
	}
	return s, nil
}

// UpdateSubtask actualiza una subtarea.
func (r *TaskRepo) UpdateSubtask(ctx context.Context, s *entity.Subtask) error {
	query := `
		UPDATE subtasks
		SET title = $2, description = $3, status = $4, assigned_to = NULLIF($5, '')::uuid,
		    due_date = $6, completed_at = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Title, s.Description, s.Status, s.AssignedTo, s.DueDate, s.CompletedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subtask: %w", err)
	}
	return nil
}

// DeleteSubtask elimina una subtarea por ID.
func (r *TaskRepo) DeleteSubtask(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(
		&t.ID, &t.OrganizationID, &t.ProjectID, &t.ClientID,
		&t.Title, &t.Description, &t.Status, &t.Priority,
		&t.AssignedTo, &t.DueDate, &t.CompletedAt, &t.CreatedBy,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanSubtask(row pgx.Row) (*entity.Subtask, error) {
	var s entity.Subtask
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.ParentTaskID, &s.Title, &s.Description,
		&s.Status, &s.AssignedTo, &s.DueDate, &s.CompletedAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
