// Движок доски: упорядоченный список задач открытого проекта.
// Мутации оптимистичны, при сбое адаптера состояние откатывается к снимку.
package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

// ErrReadOnly возвращается на мутацию без права записи.
var ErrReadOnly = errors.New("нет права записи: выполните вход по PIN")

type Engine struct {
	projectID string
	repo      repository.TaskRepository
	gate      *auth.Gate

	tasks []models.Task
}

func NewEngine(projectID string, repo repository.TaskRepository, gate *auth.Gate) *Engine {
	return &Engine{
		projectID: projectID,
		repo:      repo,
		gate:      gate,
	}
}

// LoadTasks забирает задачи проекта из адаптера и убирает дубликаты id,
// оставляя более позднюю запись. При ошибке локальное состояние не трогается.
func (e *Engine) LoadTasks(ctx context.Context) ([]models.Task, error) {
	loaded, err := e.repo.GetByProject(ctx, e.projectID)
	if err != nil {
		return nil, fmt.Errorf("загрузка задач: %w", err)
	}

	unique := make([]models.Task, 0, len(loaded))
	index := make(map[string]int, len(loaded))
	for _, t := range loaded {
		if pos, ok := index[t.ID]; ok {
			unique[pos] = t.Clone()
			continue
		}
		index[t.ID] = len(unique)
		unique = append(unique, t.Clone())
	}

	e.tasks = unique
	return e.Tasks(), nil
}

// Tasks отдаёт копию текущего списка в порядке доски.
func (e *Engine) Tasks() []models.Task {
	res := make([]models.Task, len(e.tasks))
	for i, t := range e.tasks {
		res[i] = t.Clone()
	}
	return res
}

func (e *Engine) ProjectID() string {
	return e.projectID
}

// Metrics пересчитывает производные показатели от текущего состояния.
func (e *Engine) Metrics(now time.Time) Metrics {
	return ComputeMetrics(e.tasks, now)
}

// ColumnTasks возвращает задачи одной колонки доски.
func (e *Engine) ColumnTasks(status models.Status) []models.Task {
	return Column(e.Tasks(), status)
}

func (e *Engine) AddTask(ctx context.Context, task models.Task) error {
	if !e.gate.Authenticated() {
		return ErrReadOnly
	}

	snapshot := e.snapshot()
	task.ProjectID = e.projectID
	e.tasks = append(e.tasks, task)

	stored := task.Clone()
	if err := e.repo.Create(ctx, &stored); err != nil {
		e.tasks = snapshot
		return fmt.Errorf("создание задачи: %w", err)
	}

	// адаптер проставил createdAt и позицию
	e.tasks[len(e.tasks)-1] = stored.Clone()
	return nil
}

func (e *Engine) UpdateTask(ctx context.Context, task models.Task) error {
	if !e.gate.Authenticated() {
		return ErrReadOnly
	}

	pos := e.indexOf(task.ID)
	if pos < 0 {
		return repository.ErrNotFound
	}

	snapshot := e.snapshot()
	task.ProjectID = e.projectID
	e.tasks[pos] = task.Clone()

	stored := task.Clone()
	if err := e.repo.Update(ctx, &stored); err != nil {
		e.tasks = snapshot
		return fmt.Errorf("обновление задачи: %w", err)
	}

	e.tasks[pos] = stored.Clone()
	return nil
}

func (e *Engine) DeleteTask(ctx context.Context, taskID string) error {
	if !e.gate.Authenticated() {
		return ErrReadOnly
	}

	pos := e.indexOf(taskID)
	if pos < 0 {
		return repository.ErrNotFound
	}

	snapshot := e.snapshot()
	e.tasks = append(e.tasks[:pos], e.tasks[pos+1:]...)

	if err := e.repo.Delete(ctx, taskID); err != nil {
		e.tasks = snapshot
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// MoveTask переносит карточку внутрь колонки to на destIndex.
// destIndex < 0 значит, что карточку отпустили мимо колонки.
func (e *Engine) MoveTask(ctx context.Context, taskID string, from, to models.Status, destIndex int) error {
	if !e.gate.Authenticated() {
		return nil
	}
	if destIndex < 0 {
		return nil
	}

	pos := e.indexOf(taskID)
	if pos < 0 {
		return repository.ErrNotFound
	}

	snapshot := e.snapshot()

	rest := make([]models.Task, 0, len(e.tasks)-1)
	rest = append(rest, e.tasks[:pos]...)
	rest = append(rest, e.tasks[pos+1:]...)
	moved := e.tasks[pos].Clone()

	crossColumn := from != to
	if crossColumn {
		moved.Status = to
	}

	column := []models.Task{}
	others := []models.Task{}
	for _, t := range rest {
		if t.Status == to {
			column = append(column, t)
		} else {
			others = append(others, t)
		}
	}

	if destIndex > len(column) {
		destIndex = len(column)
	}
	column = append(column[:destIndex], append([]models.Task{moved}, column[destIndex:]...)...)

	updated := append(others, column...)
	for i := range updated {
		updated[i].Position = i
	}

	e.tasks = updated

	if crossColumn {
		// смена статуса пишется до записи порядка
		stored := moved.Clone()
		if err := e.repo.Update(ctx, &stored); err != nil {
			e.tasks = snapshot
			return fmt.Errorf("смена статуса: %w", err)
		}
	}

	ids := make([]string, len(updated))
	for i, t := range updated {
		ids[i] = t.ID
	}
	if err := e.repo.Reorder(ctx, e.projectID, ids); err != nil {
		e.tasks = snapshot
		return fmt.Errorf("запись порядка: %w", err)
	}

	return nil
}

func (e *Engine) indexOf(taskID string) int {
	for i, t := range e.tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

func (e *Engine) snapshot() []models.Task {
	snap := make([]models.Task, len(e.tasks))
	for i, t := range e.tasks {
		snap[i] = t.Clone()
	}
	return snap
}
