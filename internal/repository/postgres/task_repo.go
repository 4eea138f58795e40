package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/internal/logger"
	"taskboard/internal/models"
	"taskboard/internal/repository"
)

type TaskStorage struct {
	pool *pgxpool.Pool
}

const taskColumns = `id,
				project_id,
				title,
				description,
				status,
				deadline,
				subtasks,
				labels,
				position,
				created_at,
				updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Deadline,
		&task.Subtasks,
		&task.Labels,
		&task.Position,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskStorage) Create(ctx context.Context, task *models.Task) error {
	start := time.Now()

	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Subtasks == nil {
		task.Subtasks = []models.Subtask{}
	}
	if task.Labels == nil {
		task.Labels = []string{}
	}

	query := `INSERT INTO tasks
				(id, project_id, title, description, status, deadline, subtasks, labels, position, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
					(SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE project_id = $2),
					$9)
				RETURNING position, created_at`

	err := s.pool.QueryRow(ctx, query,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Deadline,
		task.Subtasks,
		task.Labels,
		time.Now(),
	).Scan(&task.Position, &task.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id string) (*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	return task, nil
}

// GetByProject возвращает доску проекта: по позиции, при равенстве новые первыми.
func (s *TaskStorage) GetByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
				WHERE project_id = $1
				ORDER BY position, created_at DESC`
	return s.queryTasks(ctx, query, projectID)
}

func (s *TaskStorage) GetAll(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`
	return s.queryTasks(ctx, query)
}

func (s *TaskStorage) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return tasks, nil
}

func (s *TaskStorage) Update(ctx context.Context, task *models.Task) error {
	start := time.Now()

	// project_id намеренно не трогаем: привязка задачи к проекту неизменна
	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				deadline = $4,
				subtasks = $5,
				labels = $6,
				position = $7,
				updated_at = NOW()
			WHERE id = $8
			RETURNING project_id, updated_at`

	err := s.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Deadline,
		task.Subtasks,
		task.Labels,
		task.Position,
		task.ID,
	).Scan(&task.ProjectID, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, id string) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Reorder записывает полный порядок доски одной транзакцией, чтобы сбой
// посреди перетаскивания не оставил позиции полузаписанными.
func (s *TaskStorage) Reorder(ctx context.Context, projectID string, orderedIDs []string) error {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i, id := range orderedIDs {
		batch.Queue(`UPDATE tasks SET position = $1 WHERE id = $2 AND project_id = $3`, i, id, projectID)
	}

	results := tx.SendBatch(ctx, batch)
	for range orderedIDs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			logger.Error("Repository: Ошибка записи порядка", err, zap.Duration("ms", time.Since(start)))
			return fmt.Errorf("запись порядка: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("закрытие пакета: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Ошибка фиксации транзакции", err)
		return fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}
