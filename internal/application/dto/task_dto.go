package dto

import "time"

// TaskRefResponse referencia embebida de tarea en otras respuestas.
type TaskRefResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CreateTaskRequest alta de tarea. Proyecto y cliente son opcionales.
type CreateTaskRequest struct {
	ProjectID   string     `json:"project_id"`
	ClientID    string     `json:"client_id"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest edición parcial de tarea. El status va por su propio
// endpoint (UpdateTaskStatusRequest) para mantener la regla de completed_at.
type UpdateTaskRequest struct {
	ProjectID   *string    `json:"project_id"`
	ClientID    *string    `json:"client_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskStatusRequest transición de estado de tarea o subtarea.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateSubtaskRequest alta de subtarea bajo una tarea padre.
type CreateSubtaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateSubtaskRequest edición parcial de subtarea.
type UpdateSubtaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// SubtaskResponse subtarea expuesta por la API.
type SubtaskResponse struct {
	ID           string     `json:"id"`
	ParentTaskID string     `json:"parent_task_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskResponse tarea expuesta por la API con referencias y subtareas embebidas.
type TaskResponse struct {
	ID             string              `json:"id"`
	OrganizationID string              `json:"organization_id"`
	ProjectID      string              `json:"project_id,omitempty"`
	ClientID       string              `json:"client_id,omitempty"`
	Title          string              `json:"title"`
	Description    string              `json:"description,omitempty"`
	Status         string              `json:"status"`
	Priority       string              `json:"priority"`
	AssignedTo     string              `json:"assigned_to,omitempty"`
	DueDate        *time.Time          `json:"due_date,omitempty"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty"`
	CreatedBy      string              `json:"created_by,omitempty"`
	Project        *ProjectRefResponse `json:"project,omitempty"`
	Client         *ClientRefResponse  `json:"client,omitempty"`
	Subtasks       []SubtaskResponse   `json:"subtasks,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
