package dto

import (
	"time"

	"taskboard/internal/models"
)

// id клиент генерирует сам; пустой id сервер заменит новым uuid.
type CreateProjectRequest struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Deadline    time.Time       `json:"deadline"`
	Priority    models.Priority `json:"priority"`
}

func (r CreateProjectRequest) ToProject() *models.Project {
	return &models.Project{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		Priority:    r.Priority,
	}
}

// PUT полностью заменяет документ, все поля обязательны по смыслу.
type UpdateProjectRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Deadline    time.Time       `json:"deadline"`
	Priority    models.Priority `json:"priority"`
}

type CreateTaskRequest struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      models.Status    `json:"status"`
	Deadline    *time.Time       `json:"deadline"`
	Subtasks    []models.Subtask `json:"subtasks"`
	Labels      []string         `json:"labels"`
}

func (r CreateTaskRequest) ToTask() *models.Task {
	return &models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Deadline:    r.Deadline,
		Subtasks:    r.Subtasks,
		Labels:      r.Labels,
	}
}

type UpdateTaskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      models.Status    `json:"status"`
	Deadline    *time.Time       `json:"deadline"`
	Subtasks    []models.Subtask `json:"subtasks"`
	Labels      []string         `json:"labels"`
	Position    int              `json:"position"`
}

type ReorderTasksRequest struct {
	Order []string `json:"order"`
}
