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

// Проверки бизнес-логики живут здесь; репозиторий отвечает только за хранение.

type ProjectService struct {
	repo repository.ProjectRepository
}

func NewProjectService(repo repository.ProjectRepository) ProjectService {
	return ProjectService{repo: repo}
}

func (s *ProjectService) CreateProject(ctx context.Context, project *models.Project) error {
	if project.Title == "" {
		return NewValidationError("title", "название не может быть пустым")
	}
	if project.Deadline.IsZero() {
		return NewValidationError("deadline", "дедлайн должен быть задан")
	}
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}
	if !project.Priority.Valid() {
		return NewValidationError("priority", "допустимы low, medium и high")
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	if err := s.repo.Create(ctx, project); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return NewAlreadyExists("проект", project.ID)
		}
		return fmt.Errorf("создание проекта: %w", err)
	}
	return nil
}

func (s *ProjectService) GetProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение проектов: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Проект не найден", zap.String("target_id", id))
			return nil, NewNotFound("проект", id)
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, options ...ProjectOption) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Проект не найден", zap.String("target_id", id))
			return nil, NewNotFound("проект", id)
		}
		return nil, fmt.Errorf("получение проекта: %w", err)
	}

	for _, opt := range options {
		opt(project)
	}

	if project.Title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}
	if !project.Priority.Valid() {
		return nil, NewValidationError("priority", "допустимы low, medium и high")
	}

	if err := s.repo.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("проект", id)
		}
		return nil, fmt.Errorf("обновление проекта: %w", err)
	}
	return project, nil
}

// DeleteProject удаляет проект вместе со всеми его задачами.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: Проект не найден", zap.String("target_id", id))
			return NewNotFound("проект", id)
		}
		return fmt.Errorf("удаление проекта: %w", err)
	}
	return nil
}
