package localstore

import (
	"context"
	"sort"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type TaskStorage struct {
	store *Store
}

func (s *TaskStorage) Create(ctx context.Context, task *models.Task) error {
	s.store.mtx.Lock()
	defer s.store.mtx.Unlock()

	tasks, err := s.store.loadTasks()
	if err != nil {
		return err
	}

	for _, existing := range tasks {
		if existing.ID == task.ID {
			return repository.ErrAlreadyExists
		}
	}

	task.CreatedAt = time.Now()
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Subtasks == nil {
		task.Subtasks = []models.Subtask{}
	}
	if task.Labels == nil {
		task.Labels = []string{}
	}

	// новая задача встаёт в конец доски своего проекта
	maxPos := -1
	for _, existing := range tasks {
		if existing.ProjectID == task.ProjectID && existing.Position > maxPos {
			maxPos = existing.Position
		}
	}
	task.Position = maxPos + 1

	tasks = append(tasks, task)
	return s.store.saveTasks(tasks)
}

func (s *TaskStorage) GetByID(ctx context.Context, id string) (*models.Task, error) {
	s.store.mtx.Lock()
	defer s.store.mtx.Unlock()

	tasks, err := s.store.loadTasks()
	if err != nil {
		return nil, err
	}

	for _, task := range tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *TaskStorage) GetByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	s.store.mtx.Lock()
	defer s.store.mtx.Unlock()

	tasks, err := s.store.loadTasks()
	if err != nil {
		return nil, err
	}

	res := []*models.Task{}
	for _, task := range tasks {
		if task.ProjectID == projectID {
			res = append(res, task)
		}
	}
	sortBoard(res)
	return res, nil
}

func (s *TaskStorage) GetAll(ctx context.Context) ([]*models.Task, error) {
	s.store.mtx.Lock()
	defer s.store.mtx.Unlock()

	return s.store.loadTasks()
}

func (s *TaskStorage) Update(ctx context.Context, task *models.Task) error {
	s.store.mtx.Lock()
	defer s.store.mtx.Unlock()

	tasks, err := s.store.loadTasks()
	if err != nil {
		return err
	}

	for i, existing := range tasks {
		if existing.ID == task.ID {
			now := time.Now()
			task.ProjectID = existing.ProjectID // привязка к проекту неизменна
			task.CreatedAt = existing.CreatedAt
			task.UpdatedAt = &now
			tasks[i] = task
			return s.store.saveTasks(tasks)
		}
	}
	return repository.ErrNotFound
}

func (s *TaskStorage) Delete(ctx context.Context, id string) error {
	s.store.mtx.Lock()
	defer s.store.mtx.Unlock()

	tasks, err := s.store.loadTasks()
	if err != nil {
		return err
	}

	remaining := tasks[:0]
	found := false
	for _, task := range tasks {
		if task.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, task)
	}
	if !found {
		return repository.ErrNotFound
	}
	return s.store.saveTasks(remaining)
}

// Reorder записывает полный порядок доски проекта одним снимком.
// Задачи, не попавшие в orderedIDs, сохраняют прежнюю позицию.
func (s *TaskStorage) Reorder(ctx context.Context, projectID string, orderedIDs []string) error {
	s.store.mtx.Lock()
	defer s.store.mtx.Unlock()

	tasks, err := s.store.loadTasks()
	if err != nil {
		return err
	}

	positions := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		positions[id] = i
	}

	for _, task := range tasks {
		if task.ProjectID != projectID {
			continue
		}
		if pos, ok := positions[task.ID]; ok {
			task.Position = pos
		}
	}
	return s.store.saveTasks(tasks)
}

// порядок доски: по позиции, при равенстве более новые первыми
func sortBoard(tasks []*models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}
