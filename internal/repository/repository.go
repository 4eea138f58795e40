// Единый контракт адаптера хранилища. Все реализации (postgres, localstore,
// apiclient) обязаны вести себя одинаково с точки зрения вызывающего:
//   - Create никогда не перезаписывает существующий id (ErrAlreadyExists);
//   - GetByID / Update / Delete отсутствующего id возвращают ErrNotFound;
//   - Delete проекта каскадно удаляет его задачи.
package repository

import (
	"context"
	"errors"
	"taskboard/internal/models"
)

var ErrNotFound = errors.New("запись не найдена")
var ErrAlreadyExists = errors.New("запись с таким id уже существует")

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetAll(ctx context.Context) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	GetByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	GetAll(ctx context.Context) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	// Reorder транзакционно записывает полный порядок доски одним вызовом,
	// вместо записи каждой задачи по отдельности.
	Reorder(ctx context.Context, projectID string, orderedIDs []string) error
}
