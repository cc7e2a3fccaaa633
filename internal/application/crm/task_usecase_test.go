package crm_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/crm-pro/internal/application/crm"
	"github.com/tu-usuario/crm-pro/internal/application/dto"
	"github.com/tu-usuario/crm-pro/internal/domain"
	"github.com/tu-usuario/crm-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake repo de tareas
// ──────────────────────────────────────────────────────────────────────────────

type fakeTaskRepo struct {
	mu       sync.Mutex
	tasks    map[string]*entity.Task
	subtasks map[string]*entity.Subtask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*entity.Task{}, subtasks: map[string]*entity.Subtask{}}
}

func (f *fakeTaskRepo) Create(ctx context.Context, t *entity.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) ListByOrganization(ctx context.Context, organizationID, projectID string) ([]*entity.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Task
	for _, t := range f.tasks {
		if t.OrganizationID != organizationID {
			continue
		}
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, t *entity.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) CreateSubtask(ctx context.Context, s *entity.Subtask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.subtasks[s.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) GetSubtaskByID(ctx context.Context, id string) (*entity.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subtasks[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeTaskRepo) UpdateSubtask(ctx context.Context, s *entity.Subtask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.subtasks[s.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) DeleteSubtask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subtasks, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestTaskCreate_DefaultsYEstampado(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())

	resp, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "Diseñar logo"})
	require.NoError(t, err)

	assert.Equal(t, entity.TaskTodo, resp.Status, "status por defecto: todo")
	assert.Equal(t, entity.PriorityMedium, resp.Priority, "prioridad por defecto: medium")
	assert.Equal(t, orgA, resp.OrganizationID)
	assert.Equal(t, userID, resp.CreatedBy)
	assert.Nil(t, resp.CompletedAt)
}

func TestTaskCreate_NacidaCompletadaEstampaCompletedAt(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())

	resp, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{
		Title:  "Tarea ya hecha",
		Status: entity.TaskCompleted,
	})
	require.NoError(t, err)
	assert.NotNil(t, resp.CompletedAt)
}

func TestTaskCreate_EstadoInvalido(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())
	_, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{
		Title:  "X",
		Status: "archived",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskUpdateStatus_CicloCompletado(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())
	created, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "Tarea"})
	require.NoError(t, err)

	done, err := uc.UpdateStatus(context.Background(), orgA, created.ID, entity.TaskCompleted)
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt, "entrar a completed estampa la fecha")

	reopened, err := uc.UpdateStatus(context.Background(), orgA, created.ID, entity.TaskInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt, "salir de completed limpia la fecha")
}

func TestTaskUpdateStatus_EstadoInvalido(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())
	created, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "Tarea"})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), orgA, created.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskUpdateStatus_OtroTenantEsNotFound(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())
	created, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "Tarea"})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), orgB, created.ID, entity.TaskCompleted)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubtaskCreate_RequierePadreDelMismoTenant(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())
	parent, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "Padre"})
	require.NoError(t, err)

	_, err = uc.CreateSubtask(context.Background(), orgB, parent.ID, dto.CreateSubtaskRequest{Title: "Hija"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sub, err := uc.CreateSubtask(context.Background(), orgA, parent.ID, dto.CreateSubtaskRequest{Title: "Hija"})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, sub.ParentTaskID)
	assert.Equal(t, entity.TaskTodo, sub.Status)
}

func TestSubtaskUpdateStatus_MismaReglaDeCompletedAt(t *testing.T) {
	uc := crm.NewTaskUseCase(newFakeTaskRepo(), newTestCache())
	parent, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "Padre"})
	require.NoError(t, err)
	sub, err := uc.CreateSubtask(context.Background(), orgA, parent.ID, dto.CreateSubtaskRequest{Title: "Hija"})
	require.NoError(t, err)

	done, err := uc.UpdateSubtaskStatus(context.Background(), orgA, sub.ID, entity.TaskCompleted)
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedAt)

	reopened, err := uc.UpdateSubtaskStatus(context.Background(), orgA, sub.ID, entity.TaskTodo)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestTaskList_FiltroPorProyectoFormaParteDeLaClave(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := crm.NewTaskUseCase(repo, newTestCache())

	_, err := uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "T1", ProjectID: "p1"})
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), orgA, userID, dto.CreateTaskRequest{Title: "T2", ProjectID: "p2"})
	require.NoError(t, err)

	all, err := uc.List(context.Background(), orgA, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	p1, err := uc.List(context.Background(), orgA, "p1")
	require.NoError(t, err)
	require.Len(t, p1, 1)
	assert.Equal(t, "T1", p1[0].Title)
}
