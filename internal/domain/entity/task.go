package entity

import "time"

// Estados válidos de tarea (enum task_status). No se impone orden lineal:
// cualquier transición entre estados es válida. El único efecto colateral es
// sobre CompletedAt: entrar a completed lo fija, salir de completed lo limpia.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskReview     = "review"
	TaskCompleted  = "completed"
)

// Prioridades válidas de tarea (enum task_priority).
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task representa una tarea, opcionalmente asociada a un proyecto y/o cliente.
type Task struct {
	ID             string
	OrganizationID string
	ProjectID      string // opcional
	ClientID       string // opcional
	Title          string
	Description    string
	Status         string // ver constantes Task*
	Priority       string // ver constantes Priority*
	AssignedTo     string
	DueDate        *time.Time
	CompletedAt    *time.Time // solo no-nil mientras Status == completed
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Se llenan en listados (joins con projects, clients, subtasks).
	Project  *ProjectRef
	Client   *ClientRef
	Subtasks []*Subtask
}

// Subtask representa una subtarea de una Task (mismo enum de estado y la misma
// regla de CompletedAt que la tarea padre).
type Subtask struct {
	ID             string
	OrganizationID string
	ParentTaskID   string
	Title          string
	Description    string
	Status         string
	AssignedTo     string
	DueDate        *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskRef referencia embebida de tarea en listados (time entries).
type TaskRef struct {
	ID    string
	Title string
}

// ApplyStatus aplica una transición de estado sobre la tarea y mantiene la
// semántica de CompletedAt: entrar a completed lo estampa con now, salir de
// completed lo limpia, el resto de transiciones no lo toca.
func (t *Task) ApplyStatus(status string, now time.Time) {
	prev := t.Status
	t.Status = status
	if status == TaskCompleted && prev != TaskCompleted {
		t.CompletedAt = &now
	} else if status != TaskCompleted && prev == TaskCompleted {
		t.CompletedAt = nil
	}
}

// ApplyStatus misma regla que Task.ApplyStatus para subtareas.
func (s *Subtask) ApplyStatus(status string, now time.Time) {
	prev := s.Status
	s.Status = status
	if status == TaskCompleted && prev != TaskCompleted {
		s.CompletedAt = &now
	} else if status != TaskCompleted && prev == TaskCompleted {
		s.CompletedAt = nil
	}
}

// IsValidTaskStatus valida el enum task_status.
func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskCompleted:
		return true
	}
	return false
}

// IsValidTaskPriority valida el enum task_priority.
func IsValidTaskPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
