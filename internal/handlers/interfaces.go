package handlers

import (
	"context"

	"taskboard/internal/models"
	"taskboard/internal/service"
)

type ProjectService interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, options ...service.ProjectOption) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

type TaskService interface {
	CreateTask(ctx context.Context, projectID string, task *models.Task) error
	GetTasksByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, options ...service.TaskOption) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ReorderTasks(ctx context.Context, projectID string, orderedIDs []string) error
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
