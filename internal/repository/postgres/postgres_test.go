package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"
	"taskboard/internal/repository/postgres"
)

func TestMain(m *testing.M) {
	logger.Nop()
	os.Exit(m.Run())
}

// интеграционные тесты хранилища на настоящем PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.Options{})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.storage.Migrate())
}

func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

// SetupTest чистит таблицы; задачи уходят каскадом по внешнему ключу.
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "DELETE FROM projects")
	require.NoError(s.T(), err)
}

func (s *PostgresTestSuite) createProject(title string) *models.Project {
	project := &models.Project{
		ID:       uuid.NewString(),
		Title:    title,
		Deadline: time.Now().AddDate(0, 0, 7),
		Priority: models.PriorityMedium,
	}
	require.NoError(s.T(), s.storage.Projects().Create(s.ctx, project))
	return project
}

func (s *PostgresTestSuite) createTask(projectID, title string) *models.Task {
	task := &models.Task{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
	}
	require.NoError(s.T(), s.storage.Tasks().Create(s.ctx, task))
	return task
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) TestProjectCreateAndGet() {
	project := s.createProject("Запуск")
	assert.False(s.T(), project.CreatedAt.IsZero())

	got, err := s.storage.Projects().GetByID(s.ctx, project.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Запуск", got.Title)
	assert.Equal(s.T(), models.PriorityMedium, got.Priority)
	assert.Nil(s.T(), got.UpdatedAt)
}

func (s *PostgresTestSuite) TestProjectCreateDuplicate() {
	project := s.createProject("Первый")

	err := s.storage.Projects().Create(s.ctx, &models.Project{
		ID:       project.ID,
		Title:    "Дубль",
		Deadline: time.Now(),
	})
	assert.ErrorIs(s.T(), err, repository.ErrAlreadyExists)
}

func (s *PostgresTestSuite) TestProjectNotFound() {
	_, err := s.storage.Projects().GetByID(s.ctx, uuid.NewString())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	err = s.storage.Projects().Update(s.ctx, &models.Project{ID: uuid.NewString(), Title: "x"})
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	err = s.storage.Projects().Delete(s.ctx, uuid.NewString())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestProjectUpdate() {
	project := s.createProject("Старое имя")

	project.Title = "Новое имя"
	project.Priority = models.PriorityHigh
	require.NoError(s.T(), s.storage.Projects().Update(s.ctx, project))
	assert.NotNil(s.T(), project.UpdatedAt)

	got, err := s.storage.Projects().GetByID(s.ctx, project.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Новое имя", got.Title)
	assert.Equal(s.T(), models.PriorityHigh, got.Priority)
}

func (s *PostgresTestSuite) TestProjectDeleteCascadesTasks() {
	project := s.createProject("С задачами")
	other := s.createProject("Соседний")

	doomed := s.createTask(project.ID, "уйдёт каскадом")
	survivor := s.createTask(other.ID, "останется")

	require.NoError(s.T(), s.storage.Projects().Delete(s.ctx, project.ID))

	_, err := s.storage.Tasks().GetByID(s.ctx, doomed.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	got, err := s.storage.Tasks().GetByID(s.ctx, survivor.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "останется", got.Title)
}

func (s *PostgresTestSuite) TestTaskCreateDefaultsAndPositions() {
	project := s.createProject("Доска")

	first := s.createTask(project.ID, "первая")
	second := s.createTask(project.ID, "вторая")

	assert.Equal(s.T(), models.StatusTodo, first.Status)
	assert.Equal(s.T(), 0, first.Position)
	assert.Equal(s.T(), 1, second.Position)
	assert.False(s.T(), first.CreatedAt.IsZero())

	// позиции считаются в рамках своего проекта
	other := s.createProject("Другая доска")
	foreign := s.createTask(other.ID, "своя первая")
	assert.Equal(s.T(), 0, foreign.Position)
}

func (s *PostgresTestSuite) TestTaskSubtasksAndLabelsRoundTrip() {
	project := s.createProject("Доска")

	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	task := &models.Task{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		Title:     "С подзадачами",
		Status:    models.StatusInProgress,
		Deadline:  &deadline,
		Subtasks: []models.Subtask{
			{ID: uuid.NewString(), Title: "подзадача", Completed: true},
		},
		Labels: []string{"bug", "backend"},
	}
	require.NoError(s.T(), s.storage.Tasks().Create(s.ctx, task))

	got, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Subtasks, 1)
	assert.True(s.T(), got.Subtasks[0].Completed)
	assert.Equal(s.T(), []string{"bug", "backend"}, got.Labels)
	require.NotNil(s.T(), got.Deadline)
}

func (s *PostgresTestSuite) TestTaskUpdatePreservesProjectBinding() {
	project := s.createProject("Доска")
	task := s.createTask(project.ID, "Старая")

	task.Title = "Новая"
	task.Status = models.StatusDone
	task.ProjectID = "hijack" // должно быть проигнорировано
	require.NoError(s.T(), s.storage.Tasks().Update(s.ctx, task))

	assert.Equal(s.T(), project.ID, task.ProjectID)
	assert.NotNil(s.T(), task.UpdatedAt)

	got, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.StatusDone, got.Status)
	assert.Equal(s.T(), project.ID, got.ProjectID)
}

// Повторный Update с тем же содержимым оставляет запись прежней,
// кроме updated_at.
func (s *PostgresTestSuite) TestTaskUpdateIdempotent() {
	project := s.createProject("Доска")
	task := s.createTask(project.ID, "Старая")

	payload := func() *models.Task {
		return &models.Task{
			ID:       task.ID,
			Title:    "Новая",
			Status:   models.StatusDone,
			Subtasks: []models.Subtask{{ID: "s1", Title: "подзадача", Completed: true}},
			Labels:   []string{"bug"},
			Position: task.Position,
		}
	}

	require.NoError(s.T(), s.storage.Tasks().Update(s.ctx, payload()))
	first, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.storage.Tasks().Update(s.ctx, payload()))
	second, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), first.Title, second.Title)
	assert.Equal(s.T(), first.Status, second.Status)
	assert.Equal(s.T(), first.Subtasks, second.Subtasks)
	assert.Equal(s.T(), first.Labels, second.Labels)
	assert.Equal(s.T(), first.Position, second.Position)
	assert.Equal(s.T(), first.ProjectID, second.ProjectID)
	assert.True(s.T(), first.CreatedAt.Equal(second.CreatedAt))
}

func (s *PostgresTestSuite) TestTaskUpdateNotFound() {
	err := s.storage.Tasks().Update(s.ctx, &models.Task{ID: uuid.NewString(), Title: "x", Status: models.StatusTodo})
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestTaskDelete() {
	project := s.createProject("Доска")
	task := s.createTask(project.ID, "Удаляемая")

	require.NoError(s.T(), s.storage.Tasks().Delete(s.ctx, task.ID))

	_, err := s.storage.Tasks().GetByID(s.ctx, task.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	err = s.storage.Tasks().Delete(s.ctx, task.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

func (s *PostgresTestSuite) TestReorderPersistsBoardOrder() {
	project := s.createProject("Доска")

	a := s.createTask(project.ID, "a")
	b := s.createTask(project.ID, "b")
	c := s.createTask(project.ID, "c")

	require.NoError(s.T(), s.storage.Tasks().Reorder(s.ctx, project.ID, []string{c.ID, a.ID, b.ID}))

	tasks, err := s.storage.Tasks().GetByProject(s.ctx, project.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 3)
	assert.Equal(s.T(), c.ID, tasks[0].ID)
	assert.Equal(s.T(), a.ID, tasks[1].ID)
	assert.Equal(s.T(), b.ID, tasks[2].ID)
}

func (s *PostgresTestSuite) TestReorderIgnoresForeignTasks() {
	project := s.createProject("Доска")
	other := s.createProject("Чужая доска")

	a := s.createTask(project.ID, "a")
	foreign := s.createTask(other.ID, "чужая")

	// id чужого проекта в списке порядка не трогает его позицию
	require.NoError(s.T(), s.storage.Tasks().Reorder(s.ctx, project.ID, []string{foreign.ID, a.ID}))

	got, err := s.storage.Tasks().GetByID(s.ctx, foreign.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, got.Position)

	got, err = s.storage.Tasks().GetByID(s.ctx, a.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, got.Position)
}

func (s *PostgresTestSuite) TestGetByProjectEmptyBoard() {
	project := s.createProject("Пустая доска")

	tasks, err := s.storage.Tasks().GetByProject(s.ctx, project.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), tasks)
}

func (s *PostgresTestSuite) TestHealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

func TestStorageNewInvalidConnString(t *testing.T) {
	ctx := context.Background()

	_, err := postgres.New(ctx, "://invalid", postgres.Options{})
	assert.Error(t, err)
}
