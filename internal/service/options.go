package service

import (
	"time"

	"taskboard/internal/models"
)

// Функции-опции обновления. PUT полностью заменяет документ,
// обработчик собирает весь набор опций из тела запроса.

type ProjectOption func(*models.Project)

func WithProjectTitle(title string) ProjectOption {
	return func(p *models.Project) {
		p.Title = title
	}
}

func WithProjectDescription(description string) ProjectOption {
	return func(p *models.Project) {
		p.Description = description
	}
}

func WithProjectDeadline(deadline time.Time) ProjectOption {
	return func(p *models.Project) {
		p.Deadline = deadline
	}
}

func WithPriority(priority models.Priority) ProjectOption {
	return func(p *models.Project) {
		p.Priority = priority
	}
}

type TaskOption func(*models.Task)

func WithTitle(title string) TaskOption {
	return func(t *models.Task) {
		t.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(t *models.Task) {
		t.Description = description
	}
}

func WithStatus(status models.Status) TaskOption {
	return func(t *models.Task) {
		t.Status = status
	}
}

func WithDeadline(deadline *time.Time) TaskOption {
	return func(t *models.Task) {
		t.Deadline = deadline
	}
}

func WithSubtasks(subtasks []models.Subtask) TaskOption {
	return func(t *models.Task) {
		t.Subtasks = subtasks
	}
}

func WithLabels(labels []string) TaskOption {
	return func(t *models.Task) {
		t.Labels = labels
	}
}

func WithPosition(position int) TaskOption {
	return func(t *models.Task) {
		t.Position = position
	}
}
