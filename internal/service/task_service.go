package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) TaskService {
	return TaskService{repo: repo}
}

// CreateTask создаёт задачу в проекте projectID. Привязка к проекту берётся
// из маршрута, а не из тела запроса.
func (s *TaskService) CreateTask(ctx context.Context, projectID string, task *models.Task) error {
	if task.Title == "" {
		return NewValidationError("title", "название не может быть пустым")
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if !task.Status.Valid() {
		return NewValidationError("status", "допустимы todo, in-progress и done")
	}
	for _, sub := range task.Subtasks {
		if sub.Title == "" {
			return NewValidationError("subtasks", "название подзадачи не может быть пустым")
		}
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.ProjectID = projectID

	if err := s.repo.Create(ctx, task); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return NewAlreadyExists("задача", task.ID)
		}
		return fmt.Errorf("создание задачи: %w", err)
	}
	return nil
}

func (s *TaskService) GetTasksByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	tasks, err := s.repo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, options ...TaskOption) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id))
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		opt(task)
	}

	if task.Title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if !task.Status.Valid() {
		return nil, NewValidationError("status", "допустимы todo, in-progress и done")
	}

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("задача", id)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id))
			return NewNotFound("задача", id)
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// ReorderTasks применяет полный порядок доски проекта одним вызовом.
func (s *TaskService) ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return NewValidationError("order", "список порядка не может быть пустым")
	}
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if id == "" {
			return NewValidationError("order", "id не может быть пустым")
		}
		if _, ok := seen[id]; ok {
			return NewValidationError("order", "id повторяется: "+id)
		}
		seen[id] = struct{}{}
	}

	if err := s.repo.Reorder(ctx, projectID, orderedIDs); err != nil {
		return fmt.Errorf("запись порядка: %w", err)
	}
	return nil
}
